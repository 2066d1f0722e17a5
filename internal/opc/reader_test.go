package opc

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/vortex/ooxml-audit/internal/verrors"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip.Create(%q): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip.Close: %v", err)
	}
	return buf.Bytes()
}

func minimalFiles() map[string]string {
	return map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body/></w:document>`,
	}
}

func TestReader_OpenAndListParts(t *testing.T) {
	t.Parallel()
	data := buildZip(t, minimalFiles())
	ctx := verrors.NewContext(true, 0, verrors.Office2019)

	r, ok := Open(bytes.NewReader(data), int64(len(data)), ctx)
	if !ok {
		t.Fatalf("Open failed: %v", ctx.Errors())
	}

	if !r.HasPart("/word/document.xml") {
		t.Error("expected /word/document.xml to exist")
	}
	if r.HasPart("/word/missing.xml") {
		t.Error("did not expect /word/missing.xml to exist")
	}

	parts := r.ListParts()
	for _, p := range parts {
		if p == ContentTypesURI {
			t.Error("ListParts should exclude [Content_Types].xml")
		}
		if p == "/_rels/.rels" {
			t.Error("ListParts should exclude _rels/.rels")
		}
	}
}

func TestReader_PartBytesCaching(t *testing.T) {
	t.Parallel()
	data := buildZip(t, minimalFiles())
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	r, ok := Open(bytes.NewReader(data), int64(len(data)), ctx)
	if !ok {
		t.Fatalf("Open failed")
	}

	b1, ok := r.PartBytes("/word/document.xml")
	if !ok {
		t.Fatal("expected part bytes")
	}
	b2, ok := r.PartBytes("word/document.xml") // no leading slash
	if !ok {
		t.Fatal("expected part bytes with normalized uri")
	}
	if string(b1) != string(b2) {
		t.Error("cached bytes should be identical across normalized lookups")
	}
}

func TestReader_PartXML_MalformedRecordsSchemaError(t *testing.T) {
	t.Parallel()
	files := minimalFiles()
	files["word/broken.xml"] = `<w:document><unterminated>`
	data := buildZip(t, files)
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	r, ok := Open(bytes.NewReader(data), int64(len(data)), ctx)
	if !ok {
		t.Fatalf("Open failed")
	}

	_, ok = r.PartXML("/word/broken.xml", ctx)
	if ok {
		t.Error("expected PartXML to fail on malformed XML")
	}
	found := false
	for _, e := range ctx.Errors() {
		if e.Kind == verrors.KindSchema {
			found = true
		}
	}
	if !found {
		t.Error("expected a Schema error to be recorded")
	}
}

func TestReader_OpenNonZip(t *testing.T) {
	t.Parallel()
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	data := []byte("not a zip file")
	_, ok := Open(bytes.NewReader(data), int64(len(data)), ctx)
	if ok {
		t.Fatal("expected Open to fail on non-ZIP input")
	}
	if len(ctx.Errors()) != 1 || ctx.Errors()[0].Kind != verrors.KindPackage {
		t.Errorf("expected one Package error, got %v", ctx.Errors())
	}
}
