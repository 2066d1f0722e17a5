package bridge

import (
	"testing"

	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/schematron"
)

func TestNew_GroupsConstraintsByContext(t *testing.T) {
	t.Parallel()
	rules, err := schematron.LoadRules([]byte(`[
		{"Context": "w:sz", "Test": "@val >= 2 and @val <= 3276", "App": "Word"},
		{"Context": "w:sz", "Test": "@val != '0'", "App": "Word"},
		{"Context": "w:color", "Test": "@val = 'auto'", "App": "Word"}
	]`))
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	reg := schematron.NewRegistry(rules)
	b := New(nil, reg)

	sz := b.ConstraintsForContext("w:sz")
	if len(sz) != 2 {
		t.Fatalf("expected 2 constraints for w:sz, got %d", len(sz))
	}
	color := b.ConstraintsForContext("w:color")
	if len(color) != 1 {
		t.Fatalf("expected 1 constraint for w:color, got %d", len(color))
	}
}

func TestNormalizedContentModel_Memoizes(t *testing.T) {
	t.Parallel()
	ec := &schema.ElementConstraint{
		ContentModel: &schema.Particle{
			Kind: schema.PSequence,
			Children: []*schema.Particle{
				{Kind: schema.PElement, LocalName: "p", Min: 1, Max: 1},
			},
		},
	}
	b := New(nil, nil)
	first := b.NormalizedContentModel(ec)
	second := b.NormalizedContentModel(ec)
	if first != second {
		t.Error("expected the same normalized particle pointer on repeated calls")
	}
}
