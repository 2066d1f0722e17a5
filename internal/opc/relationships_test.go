package opc

import "testing"

const sampleRels = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`

func TestParseRelationships_ResolveTarget(t *testing.T) {
	t.Parallel()
	c := ParseRelationships([]byte(sampleRels), "/word/document.xml")

	target, ok := c.ResolveTarget("rId1")
	if !ok || target != "/word/styles.xml" {
		t.Errorf("internal target: got (%q, %v)", target, ok)
	}

	target, ok = c.ResolveTarget("rId2")
	if !ok || target != "https://example.com" {
		t.Errorf("external target should be opaque: got (%q, %v)", target, ok)
	}

	if _, ok := c.ResolveTarget("rIdMissing"); ok {
		t.Error("expected missing id to be absent")
	}
}

func TestResolveTarget_Idempotent(t *testing.T) {
	t.Parallel()
	c := ParseRelationships([]byte(sampleRels), "/word/document.xml")
	target, _ := c.ResolveTarget("rId1")
	again := Resolve(PackURI(target))
	if string(again) != target {
		t.Errorf("resolve(resolve(t)) != resolve(t): %q vs %q", again, target)
	}
}

func TestDuplicateIDs(t *testing.T) {
	t.Parallel()
	blob := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="t1" Target="a.xml"/>
  <Relationship Id="rId1" Type="t2" Target="b.xml"/>
  <Relationship Id="rId2" Type="t3" Target="c.xml"/>
</Relationships>`
	dups := DuplicateIDs([]byte(blob))
	if len(dups) != 1 || dups[0] != "rId1" {
		t.Errorf("expected [rId1], got %v", dups)
	}
}

func TestByType(t *testing.T) {
	t.Parallel()
	c := ParseRelationships([]byte(sampleRels), "/word/document.xml")
	rel, ok := c.ByType("http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles")
	if !ok || rel.ID != "rId1" {
		t.Errorf("ByType: got %v, %v", rel, ok)
	}
}

func TestGetRelsURI(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   PackURI
		want PackURI
	}{
		{PackageURI, "/_rels/.rels"},
		{"/word/document.xml", "/word/_rels/document.xml.rels"},
		{"/ppt/slides/slide1.xml", "/ppt/slides/_rels/slide1.xml.rels"},
	}
	for _, c := range cases {
		if got := c.in.RelsURI(); got != c.want {
			t.Errorf("RelsURI(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
