package schema

import "testing"

func TestRichest_PrefersNonLeafWithParticle(t *testing.T) {
	t.Parallel()
	leaf := &ElementConstraint{IsLeaf: true}
	rich := &ElementConstraint{
		IsLeaf:       false,
		ContentModel: &Particle{Kind: PSequence, Children: []*Particle{{Kind: PElement}}},
		Attributes:   []*AttributeConstraint{{}},
	}
	got := richest([]*ElementConstraint{leaf, rich})
	if got != rich {
		t.Error("expected the non-leaf, particle-bearing candidate to win")
	}
}

func TestBestCandidate_RequiresAllRequiredAttributesPresent(t *testing.T) {
	t.Parallel()
	ns := "urn:test"
	b := NewBuilder(map[string]string{"t": ns})

	withRequired := &ElementConstraint{
		Namespace: ns, LocalName: "elem",
		Attributes: []*AttributeConstraint{{LocalName: "id", Required: true}},
		ContentModel: &Particle{Kind: PSequence},
	}
	withoutRequired := &ElementConstraint{
		Namespace: ns, LocalName: "elem",
		ContentModel: &Particle{Kind: PSequence},
	}
	b.register(ns, "elem", withRequired)
	b.register(ns, "elem", withoutRequired)
	reg := b.Build()

	// No attributes present: only withoutRequired satisfies.
	got, ok := reg.BestCandidate(ns, "elem", map[string]bool{}, nil)
	if !ok || got != withoutRequired {
		t.Errorf("expected withoutRequired to win when id is absent, got %+v", got)
	}

	// id present: withRequired is now eligible and should win (it is more
	// specific in the sense the registry's candidate list order picks it
	// first among equally-scored eligible candidates since declOrder 0).
	got, ok = reg.BestCandidate(ns, "elem", map[string]bool{"id": true}, nil)
	if !ok || got != withRequired {
		t.Errorf("expected withRequired to win when id is present, got %+v", got)
	}
}

func TestBestCandidate_SpecificMatchesBreakTies(t *testing.T) {
	t.Parallel()
	ns := "urn:test"
	b := NewBuilder(map[string]string{"t": ns})

	candA := &ElementConstraint{
		Namespace: ns, LocalName: "elem",
		ContentModel: &Particle{Kind: PSequence, Children: []*Particle{
			{Kind: PElement, Namespace: ns, LocalName: "foo"},
		}},
	}
	candB := &ElementConstraint{
		Namespace: ns, LocalName: "elem",
		ContentModel: &Particle{Kind: PSequence, Children: []*Particle{
			{Kind: PElement, Namespace: ns, LocalName: "bar"},
		}},
	}
	b.register(ns, "elem", candA)
	b.register(ns, "elem", candB)
	reg := b.Build()

	children := []InstanceChild{{Namespace: ns, LocalName: "bar"}}
	got, ok := reg.BestCandidate(ns, "elem", map[string]bool{}, children)
	if !ok || got != candB {
		t.Errorf("expected candB (matches 'bar' child) to win, got %+v", got)
	}
}
