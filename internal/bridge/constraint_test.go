package bridge

import (
	"testing"

	"github.com/vortex/ooxml-audit/internal/schematron"
)

func TestBuildConstraint_Simple(t *testing.T) {
	t.Parallel()
	kind, params := schematron.Classify("@val >= 0 and @val <= 100")
	rule := &schematron.Rule{Context: "w:sz", Test: "@val >= 0 and @val <= 100", Kind: kind, Params: params}

	c, ok := BuildConstraint(rule)
	if !ok {
		t.Fatal("expected BuildConstraint to succeed")
	}
	if c.Min == nil || *c.Min != 0 || c.Max == nil || *c.Max != 100 {
		t.Errorf("got %+v", c)
	}
}

func TestBuildConstraint_OrComposesSubConstraints(t *testing.T) {
	t.Parallel()
	kind, params := schematron.Classify("(@a = '1') or (@b = '2')")
	rule := &schematron.Rule{Context: "w:x", Kind: kind, Params: params}

	c, ok := BuildConstraint(rule)
	if !ok || c.Kind != schematron.KindOrCondition || len(c.Sub) != 2 {
		t.Fatalf("got %+v ok=%v", c, ok)
	}
}

func TestBuildConstraint_DropsUncompilableRegex(t *testing.T) {
	t.Parallel()
	rule := &schematron.Rule{
		Context: "w:x",
		Kind:    schematron.KindAttributeValuePattern,
		Params:  schematron.Params{Attr: "val", Pattern: "(unterminated"},
	}
	_, ok := BuildConstraint(rule)
	if ok {
		t.Error("expected an uncompilable pattern to be dropped")
	}
}

func TestTranslateXPathRegex_Substitutions(t *testing.T) {
	t.Parallel()
	re, err := TranslateXPathRegex(`^\i\c*$`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("abc_123") {
		t.Error("expected NCName-like pattern to match")
	}
	if re.MatchString("1abc") {
		t.Error("expected leading digit to be rejected")
	}
}
