package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/vortex/ooxml-audit/internal/service"
	"github.com/vortex/ooxml-audit/internal/verrors"
	"github.com/vortex/ooxml-audit/pkg/audit"
	"github.com/vortex/ooxml-audit/pkg/response"
)

// ValidateHandler exposes the conformance engine over HTTP.
type ValidateHandler struct {
	svc service.AuditService
}

// NewValidateHandler creates a handler backed by the given service.
func NewValidateHandler(svc service.AuditService) *ValidateHandler {
	return &ValidateHandler{svc: svc}
}

// Validate handles POST /api/v1/documents/validate.
// Accepts a multipart form with a "file" field containing the OOXML
// package, plus optional file_format/strict/max_errors query parameters,
// and returns the ValidationResult as JSON.
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	data, err := readUploadedFile(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := audit.Options{
		Strict:     queryBool(r, "strict", false),
		MaxErrors:  queryInt(r, "max_errors", 0),
		FileFormat: parseFileFormat(r.URL.Query().Get("file_format")),
	}

	result, err := h.svc.Validate(data, opts)
	if err != nil {
		if result != nil {
			response.JSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// readUploadedFile extracts the file bytes from a multipart upload. It
// looks for a form field named "file".
func readUploadedFile(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(100 << 20); err != nil { // 100 MB max
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func queryBool(r *http.Request, key string, fallback bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

var fileFormats = map[string]verrors.FileFormat{
	"office2007":  verrors.Office2007,
	"office2010":  verrors.Office2010,
	"office2013":  verrors.Office2013,
	"office2016":  verrors.Office2016,
	"office2019":  verrors.Office2019,
	"office2021":  verrors.Office2021,
	"microsoft365": verrors.Microsoft365,
	"odf12":       verrors.ODF12,
	"odf13":       verrors.ODF13,
}

func parseFileFormat(v string) verrors.FileFormat {
	if f, ok := fileFormats[v]; ok {
		return f
	}
	return verrors.Office2007
}
