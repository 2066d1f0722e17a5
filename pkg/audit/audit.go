// Package audit is the public entry point into the OOXML conformance
// engine: open a package, run it through the Document-Profile Driver's
// 7-phase pipeline, and return a ValidationResult.
//
// Grounded on go-docx/pkg/docx/docx.go's Open/OpenFile/OpenBytes triad
// and internal/service/packaging.go's service-interface shape, adapted
// from "open and round-trip a .docx" to "open and validate a package".
package audit

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/profile"
	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/schematron"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// Options configures one validation run. Registries (schema/schematron)
// are not part of Options: they are process-wide and built once by the
// caller, then passed explicitly into each Validate call (spec.md §5
// "Resource ownership").
type Options struct {
	Strict     bool
	MaxErrors  int // 0 = unlimited
	FileFormat verrors.FileFormat
	Logger     *slog.Logger
}

// ErrorRecord is the JSON-facing rendering of a verrors.ValidationError:
// Kind and Severity are stringified so the HTTP response shape is
// self-describing without the caller needing the internal enum values.
type ErrorRecord struct {
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Part        string `json:"part,omitempty"`
	Path        string `json:"path,omitempty"`
	Node        string `json:"node,omitempty"`
	RelatedNode string `json:"related_node,omitempty"`
	ID          string `json:"id,omitempty"`
}

// ValidationResult is the one blessed JSON shape this module exposes,
// over the CLI, the library API, and the HTTP surface alike.
type ValidationResult struct {
	Valid  bool          `json:"valid"`
	Kind   string        `json:"kind"`
	Errors []ErrorRecord `json:"errors"`
}

// ValidateBytes validates an in-memory OPC package.
func ValidateBytes(data []byte, schemas *schema.Registry, rules *schematron.Registry, opts Options) (*ValidationResult, error) {
	return ValidateReader(bytes.NewReader(data), int64(len(data)), schemas, rules, opts)
}

// ValidateFile opens and validates a package from disk.
func ValidateFile(path string, schemas *schema.Registry, rules *schematron.Registry, opts Options) (*ValidationResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("audit: stat %s: %w", path, err)
	}
	return ValidateReader(f, info.Size(), schemas, rules, opts)
}

// ValidateReader runs the full pipeline over r. error is non-nil only
// for the unrecoverable container failure of spec.md §7 ("not a valid
// OPC container" — opc.Open itself refused the ZIP); the returned
// ValidationResult still carries the Package error that caused it, so
// callers that only look at the result see it too. Every other failure
// mode (missing officeDocument relationship, malformed XML in one part,
// schema/semantic/binary violations) is carried purely in
// ValidationResult.Errors with a nil error return.
func ValidateReader(r io.ReaderAt, size int64, schemas *schema.Registry, rules *schematron.Registry, opts Options) (*ValidationResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := verrors.NewContext(opts.Strict, opts.MaxErrors, opts.FileFormat)

	reader, ok := opc.Open(r, size, ctx)
	if !ok {
		result := buildResult("", ctx)
		var desc string
		if errs := ctx.Errors(); len(errs) > 0 {
			desc = errs[len(errs)-1].Description
		}
		return result, fmt.Errorf("audit: %s", desc)
	}
	defer reader.Close()

	br := bridge.New(schemas, rules)
	driver := profile.New(reader, br)

	logger.Info("validating package", slog.Int64("size_bytes", size))
	driver.Run(ctx)

	result := buildResult(driver.Kind().String(), ctx)
	logger.Info("validation complete",
		slog.Bool("valid", result.Valid),
		slog.Int("error_count", len(result.Errors)),
		slog.String("kind", result.Kind),
	)
	return result, nil
}

func buildResult(kind string, ctx *verrors.Context) *ValidationResult {
	errs := ctx.Errors()
	out := make([]ErrorRecord, len(errs))
	for i, e := range errs {
		out[i] = ErrorRecord{
			Kind:        e.Kind.String(),
			Severity:    e.Severity.String(),
			Description: e.Description,
			Part:        e.Part,
			Path:        e.Path,
			Node:        e.Node,
			RelatedNode: e.RelatedNode,
			ID:          e.ID,
		}
	}
	return &ValidationResult{
		Valid:  ctx.IsValid(),
		Kind:   kind,
		Errors: out,
	}
}
