package opc

import "testing"

const sampleContentTypes = `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="XML" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

func TestParseContentTypes_OverrideThenDefault(t *testing.T) {
	t.Parallel()
	ct, err := ParseContentTypes([]byte(sampleContentTypes))
	if err != nil {
		t.Fatalf("ParseContentTypes: %v", err)
	}

	mt, ok := ct.ContentType("/word/document.xml")
	if !ok || mt != "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml" {
		t.Errorf("override lookup: got (%q, %v)", mt, ok)
	}

	mt, ok = ct.ContentType("/word/settings.xml")
	if !ok || mt != "application/xml" {
		t.Errorf("extension default lookup (case-insensitive): got (%q, %v)", mt, ok)
	}

	_, ok = ct.ContentType("/word/image.png")
	if ok {
		t.Error("expected unknown extension to be absent")
	}
}

func TestParseContentTypes_RoundTrip(t *testing.T) {
	t.Parallel()
	ct, err := ParseContentTypes([]byte(sampleContentTypes))
	if err != nil {
		t.Fatalf("ParseContentTypes: %v", err)
	}
	for pn, wantMT := range ct.Overrides() {
		gotMT, ok := ct.ContentType(pn)
		if !ok || gotMT != wantMT {
			t.Errorf("round-trip for %q: got (%q, %v), want %q", pn, gotMT, ok, wantMT)
		}
	}
}

func TestParseContentTypes_IgnoresUnknownChildren(t *testing.T) {
	t.Parallel()
	blob := `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Comment>not part of the schema</Comment>
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`
	ct, err := ParseContentTypes([]byte(blob))
	if err != nil {
		t.Fatalf("ParseContentTypes: %v", err)
	}
	if _, ok := ct.ContentType("/foo.xml"); !ok {
		t.Error("expected Default to still be parsed despite unknown sibling")
	}
}
