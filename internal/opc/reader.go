package opc

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/verrors"
)

// Reader opens a ZIP-backed OPC package and serves parts as bytes or
// parsed XML, caching per part. It never raises across its public API;
// failures are recorded on the supplied *verrors.Context (spec.md §4.1).
//
// Grounded on go-docx/pkg/docx/opc/package.go's Open/OpenBytes/OpenFile
// triad, rewritten around archive/zip directly (the teacher's
// PhysPkgReader wasn't present in the retrieved slice) since this module
// only ever reads, never writes, a package.
type Reader struct {
	zr    *zip.Reader
	bytes map[string][]byte // entry name -> decompressed bytes, lazily filled
	xml   map[string]*etree.Document
	names map[string]*zip.File // normalized PackURI string -> entry
	order []string             // normalized PackURI strings, ZIP enumeration order
}

// Open builds a Reader over an io.ReaderAt of the given size. On
// failure (non-ZIP input, corrupt central directory) it records a
// Package error on ctx and returns (nil, false) — the caller (the
// top-level pipeline) treats this as the one unrecoverable container
// failure spec.md §7 describes.
func Open(r io.ReaderAt, size int64, ctx *verrors.Context) (*Reader, bool) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		ctx.Add(&verrors.ValidationError{
			Kind:        verrors.KindPackage,
			Severity:    verrors.SeverityError,
			Description: fmt.Sprintf("not a valid OPC container: %v", err),
		})
		return nil, false
	}

	rd := &Reader{
		zr:    zr,
		bytes: make(map[string][]byte),
		xml:   make(map[string]*etree.Document),
		names: make(map[string]*zip.File),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		uri := string(Normalize(f.Name))
		rd.names[uri] = f
		rd.order = append(rd.order, uri)
	}
	return rd, true
}

// HasPart reports whether a part exists in the package.
func (r *Reader) HasPart(uri PackURI) bool {
	_, ok := r.names[string(Normalize(uri))]
	return ok
}

// PartBytes returns the raw (decompressed) bytes of a part, caching by
// entry name. Returns (nil, false) if the part does not exist.
func (r *Reader) PartBytes(uri PackURI) ([]byte, bool) {
	key := string(Normalize(uri))
	if b, ok := r.bytes[key]; ok {
		return b, true
	}
	f, ok := r.names[key]
	if !ok {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	r.bytes[key] = b
	return b, true
}

// PartXML parses a part as XML, caching the parsed document. On syntax
// failure it records a Schema error on ctx and returns (nil, false).
func (r *Reader) PartXML(uri PackURI, ctx *verrors.Context) (*etree.Document, bool) {
	key := string(Normalize(uri))
	if doc, ok := r.xml[key]; ok {
		return doc, true
	}
	b, ok := r.PartBytes(uri)
	if !ok {
		return nil, false
	}
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(b); err != nil {
		if ctx != nil {
			ctx.Add(&verrors.ValidationError{
				Kind:        verrors.KindSchema,
				Severity:    verrors.SeverityError,
				Description: fmt.Sprintf("malformed XML: %v", err),
				Part:        string(uri),
			})
		}
		return nil, false
	}
	r.xml[key] = doc
	return doc, true
}

// ListParts returns every part URI in ZIP enumeration order, excluding
// per-part .rels files and [Content_Types].xml (spec.md §4.1).
func (r *Reader) ListParts() []PackURI {
	var out []PackURI
	for _, uri := range r.order {
		if isRelsPart(uri) || uri == string(ContentTypesURI) {
			continue
		}
		out = append(out, PackURI(uri))
	}
	return out
}

func isRelsPart(uri string) bool {
	return strings.HasSuffix(uri, ".rels") && strings.Contains(uri, "_rels/")
}

// Close invalidates the per-part byte cache. The underlying zip.Reader
// has no explicit handle to release (archive/zip.Reader is stateless
// over the provided io.ReaderAt), but Close() gives callers a single
// teardown point matching the package's documented lifetime (spec.md
// §3 "Package... torn down on close; a per-part byte cache is
// invalidated on close").
func (r *Reader) Close() {
	r.bytes = nil
	r.xml = nil
}
