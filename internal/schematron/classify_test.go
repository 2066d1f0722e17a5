package schematron

import "testing"

func TestClassify_Range(t *testing.T) {
	t.Parallel()
	cases := []string{
		"@val >= 0 and @val <= 100",
		"@val <= 100 and @val >= 0",
	}
	for _, c := range cases {
		k, p := Classify(c)
		if k != KindAttributeValueRange {
			t.Fatalf("%q: got %v, want AttributeValueRange", c, k)
		}
		if p.Min == nil || *p.Min != 0 || p.Max == nil || *p.Max != 100 {
			t.Errorf("%q: got Min=%v Max=%v", c, p.Min, p.Max)
		}
	}

	k, p := Classify("@w >= 1")
	if k != KindAttributeValueRange || p.Min == nil || *p.Min != 1 || p.Max != nil {
		t.Errorf("min-only: got %v %+v", k, p)
	}

	k, p = Classify("@w <= 9f")
	if k != KindAttributeValueRange || p.Max == nil || *p.Max != 9 {
		t.Errorf("max-only with f suffix: got %v %+v", k, p)
	}
}

func TestClassify_Length(t *testing.T) {
	t.Parallel()
	k, p := Classify("string-length(@val) >= 1 and string-length(@val) <= 255")
	if k != KindAttributeValueLength {
		t.Fatalf("got %v", k)
	}
	if p.MinLen == nil || *p.MinLen != 1 || p.MaxLen == nil || *p.MaxLen != 255 {
		t.Errorf("got %+v", p)
	}

	k, p = Classify("string-length(@val) <= 50")
	if k != KindAttributeValueLength || p.MaxLen == nil || *p.MaxLen != 50 || p.MinLen != nil {
		t.Errorf("one-sided: got %v %+v", k, p)
	}
}

func TestClassify_Pattern(t *testing.T) {
	t.Parallel()
	k, p := Classify(`matches(@val, '^[0-9]+$')`)
	if k != KindAttributeValuePattern || p.Attr != "val" || p.Pattern != "^[0-9]+$" {
		t.Errorf("got %v %+v", k, p)
	}
}

func TestClassify_UniqueAttribute(t *testing.T) {
	t.Parallel()
	k, p := Classify("count(distinct-values(../w:p/@id)) = count(../w:p)")
	if k != KindUniqueAttribute || p.Attr != "id" {
		t.Errorf("got %v %+v", k, p)
	}
}

func TestClassify_RelationshipType(t *testing.T) {
	t.Parallel()
	k, p := Classify(`document('rels')//r:Relationship[@Id = current()/@r:id and @Type='http://schemas/x/image']`)
	if k != KindRelationshipType || p.Attr != "r:id" || p.ExpectedValue != "http://schemas/x/image" {
		t.Errorf("got %v %+v", k, p)
	}
}

func TestClassify_ElementReference(t *testing.T) {
	t.Parallel()
	k, p := Classify("index-of(document('styles.xml')//w:style/@w:styleId, @val) > 0")
	if k != KindElementReference || p.Attr != "val" {
		t.Errorf("got %v %+v", k, p)
	}
}

func TestClassify_NotEqualAndEquals(t *testing.T) {
	t.Parallel()
	k, p := Classify("@type != 'none'")
	if k != KindAttributeNotEqual || p.Attr != "type" || p.ExpectedValue != "none" {
		t.Errorf("got %v %+v", k, p)
	}
	k, p = Classify("@type = 'solid'")
	if k != KindAttributeEquals || p.Attr != "type" || p.ExpectedValue != "solid" {
		t.Errorf("got %v %+v", k, p)
	}
}

func TestClassify_Comparison(t *testing.T) {
	t.Parallel()
	k, p := Classify("@min <= @max")
	if k != KindAttributeComparison || p.Attr != "min" || p.OtherAttr != "max" || p.CompareOp != "<=" {
		t.Errorf("got %v %+v", k, p)
	}
}

func TestClassify_OrCondition_ParenAware(t *testing.T) {
	t.Parallel()
	k, p := Classify("(@a = '1') or (@b = '2')")
	if k != KindOrCondition || len(p.SubRules) != 2 {
		t.Fatalf("got %v %+v", k, p)
	}
	if p.SubRules[0].Kind != KindAttributeEquals || p.SubRules[1].Kind != KindAttributeEquals {
		t.Errorf("sub-rule kinds: %v, %v", p.SubRules[0].Kind, p.SubRules[1].Kind)
	}

	// " or " inside a predicate's brackets must not be treated as a split
	// point.
	k2, _ := Classify(`document('rels')//r:Relationship[@Type='a' or @Type='b']`)
	if k2 == KindOrCondition {
		t.Error("bracketed ' or ' should not split at top level")
	}
}

func TestClassify_AndCondition_AllNotEqual(t *testing.T) {
	t.Parallel()
	k, p := Classify("@a != 'x' and @b != 'y'")
	if k != KindAndCondition || len(p.SubRules) != 2 {
		t.Fatalf("got %v %+v", k, p)
	}
}

func TestClassify_AttributesPresent(t *testing.T) {
	t.Parallel()
	k, p := Classify("@id")
	if k != KindAttributesPresent || len(p.RequiredAttrs) != 1 || p.RequiredAttrs[0] != "id" {
		t.Errorf("singleton: got %v %+v", k, p)
	}

	k, p = Classify("@a and @b and @c")
	if k != KindAttributesPresent || len(p.RequiredAttrs) != 3 {
		t.Errorf("all-required: got %v %+v", k, p)
	}
}

func TestClassify_ConditionalValue(t *testing.T) {
	t.Parallel()
	k, p := Classify("@kind and @kind = 'custom'")
	if k != KindConditionalValue || p.Attr != "kind" {
		t.Fatalf("got %v %+v", k, p)
	}
	if len(p.SubRules) != 1 || p.SubRules[0].Kind != KindAttributeEquals {
		t.Errorf("sub-rule: %+v", p.SubRules)
	}
}

func TestClassify_CrossPartCount(t *testing.T) {
	t.Parallel()
	k, p := Classify("@count < count(document('Part:/ppt/presentation.xml')//p:sldId) + 1")
	if k != KindCrossPartCount {
		t.Fatalf("got %v", k)
	}
	if p.Attr != "count" || p.PartPath != "/ppt/presentation.xml" || p.XPath != "p:sldId" || p.Offset != 1 {
		t.Errorf("got %+v", p)
	}
}

func TestClassify_Unknown(t *testing.T) {
	t.Parallel()
	k, _ := Classify("translate(@a, 'x', 'y') = @a")
	if k != KindUnknown {
		t.Errorf("got %v, want Unknown", k)
	}
}
