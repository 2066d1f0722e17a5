package schema

import "testing"

func TestParseOccurs(t *testing.T) {
	t.Parallel()
	i := func(n int) *int { return &n }

	cases := []struct {
		name    string
		occurs  []jsonOccurs
		minWant int
		maxWant int
	}{
		{"absent", nil, 1, 1},
		{"empty record", []jsonOccurs{{}}, 0, Unbounded},
		{"min only", []jsonOccurs{{Min: i(2)}}, 2, Unbounded},
		{"max zero means unbounded", []jsonOccurs{{Min: i(1), Max: i(0)}}, 1, Unbounded},
		{"explicit bounds", []jsonOccurs{{Min: i(1), Max: i(3)}}, 1, 3},
		{"max only defaults min zero", []jsonOccurs{{Max: i(5)}}, 0, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			min, max := parseOccurs(c.occurs)
			if min != c.minWant || max != c.maxWant {
				t.Errorf("parseOccurs(%+v) = (%d, %d), want (%d, %d)", c.occurs, min, max, c.minWant, c.maxWant)
			}
		})
	}
}

func TestSplitSDKName(t *testing.T) {
	t.Parallel()
	typePart, elemPart, hasElem := splitSDKName("w:CT_Body/w:body")
	if typePart != "w:CT_Body" || elemPart != "w:body" || !hasElem {
		t.Errorf("got (%q, %q, %v)", typePart, elemPart, hasElem)
	}
	_, _, hasElem = splitSDKName("w:CT_AbstractNum")
	if hasElem {
		t.Error("abstract type name should have no element segment")
	}
}

func TestBuilder_AddSchemaFile_And_BestCandidate(t *testing.T) {
	t.Parallel()
	ns := map[string]string{
		"w": "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	}
	b := NewBuilder(ns)

	schemaJSON := []byte(`{
		"TargetNamespace": "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
		"Types": [
			{
				"Name": "w:CT_Body/w:body",
				"IsLeafElement": false,
				"Attributes": [],
				"Particle": {
					"Kind": "Sequence",
					"Children": [
						{"Kind": "Element", "Name": "w:p", "Occurs": [{}]},
						{"Kind": "Element", "Name": "w:sectPr", "Occurs": [{"Max": 1}]}
					]
				}
			}
		]
	}`)
	if err := b.AddSchemaFile(schemaJSON); err != nil {
		t.Fatalf("AddSchemaFile: %v", err)
	}

	reg := b.Build()
	ec, ok := reg.Default("http://schemas.openxmlformats.org/wordprocessingml/2006/main", "body")
	if !ok {
		t.Fatal("expected a default candidate for w:body")
	}
	if ec.ContentModel == nil || ec.ContentModel.Kind != PSequence {
		t.Fatalf("expected a Sequence content model, got %+v", ec.ContentModel)
	}
	if len(ec.ContentModel.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(ec.ContentModel.Children))
	}
	pChild := ec.ContentModel.Children[0]
	if pChild.Namespace != ns["w"] || pChild.LocalName != "p" {
		t.Errorf("unexpected first child particle: %+v", pChild)
	}
	if pChild.Min != 0 || pChild.Max != Unbounded {
		t.Errorf("w:p occurs: got (%d,%d), want (0,Unbounded)", pChild.Min, pChild.Max)
	}
}

func TestResolveSDKType(t *testing.T) {
	t.Parallel()
	if ResolveSDKType("Int32Value") != "int" {
		t.Error("Int32Value should map to int")
	}
	if ResolveSDKType("EnumValue<ST_Jc>") != "string" {
		t.Error("EnumValue<...> should map to string")
	}
	if ResolveSDKType("Unknown") != "string" {
		t.Error("unknown SDK type should default to string")
	}
}
