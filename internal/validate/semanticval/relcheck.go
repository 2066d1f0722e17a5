package semanticval

import (
	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// checkUniqueAttribute implements the UniqueAttribute predicate: the
// rule's Context element is the parent whose direct children must carry
// distinct values for the named attribute (spec.md §4.4 rule 4,
// "count(distinct-values(.../@attr)) = count(...)").
func (v *Validator) checkUniqueAttribute(el *etree.Element, c *bridge.Constraint, ctx *verrors.Context) {
	seen := make(map[string]bool)
	for _, child := range el.ChildElements() {
		val, ok := getAttr(child, c.Attr)
		if !ok {
			continue
		}
		if seen[val] {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Duplicate value %q for attribute %s among sibling elements", val, c.Attr)
			continue
		}
		seen[val] = true
	}
}

// ValidateRelationshipIntegrity implements spec.md §4.7's per-part
// relationship-integrity pass: duplicate relationship ids within a
// part's own .rels file, and every Internal-mode relationship target
// must resolve to an existing package part.
func (v *Validator) ValidateRelationshipIntegrity(source opc.PackURI, blob []byte, ctx *verrors.Context) {
	for _, id := range opc.DuplicateIDs(blob) {
		ctx.Errorf(verrors.KindRelationship, verrors.SeverityError, "Duplicate relationship id %q in %s", id, source.RelsURI())
	}

	rels := opc.ParseRelationships(blob, source)
	for _, r := range rels.All() {
		if r.IsExternal() {
			continue
		}
		target, ok := rels.ResolveTarget(r.ID)
		if !ok {
			continue
		}
		if !v.reader.HasPart(opc.Normalize(target)) {
			ctx.Errorf(verrors.KindRelationship, verrors.SeverityError, "Relationship %q targets missing part %s", r.ID, target)
		}
	}
}
