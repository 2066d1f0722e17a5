package schemaval

import (
	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// instChild pairs an actual instance element with its resolved
// qualified name, used by the particle validators.
type instChild struct {
	ns, local string
}

// matchesItem reports whether an instance child matches a content-model
// particle item. For composite items preserved as a nested unit by
// bridge normalization (spec.md §4.5), a child matches if its qualified
// name is reachable anywhere in the item's subtree, or the subtree
// contains a wildcard.
func matchesItem(item *schema.Particle, ns, local string) bool {
	switch item.Kind {
	case schema.PElement:
		return item.Matches(ns, local)
	case schema.PAny:
		return item.MatchesAny(item.TargetNamespace, ns)
	default:
		qnames := make(map[[2]string]bool)
		item.QNames(qnames)
		if qnames[[2]string{ns, local}] {
			return true
		}
		return item.HasAny()
	}
}

func describeItem(item *schema.Particle) string {
	switch item.Kind {
	case schema.PElement:
		return item.LocalName
	case schema.PAny:
		return "any element"
	default:
		qnames := make(map[[2]string]bool)
		item.QNames(qnames)
		if len(qnames) == 1 {
			for q := range qnames {
				return q[1]
			}
		}
		return "one of the expected elements"
	}
}

// validateContentModel dispatches to the particle validator matching the
// model's kind (spec.md §4.6 "Particle validators").
func validateContentModel(model *schema.Particle, children []instChild, ctx *verrors.Context) {
	if model == nil {
		return
	}
	switch model.Kind {
	case schema.PSequence, schema.PGroup:
		validateSequence(model.Children, children, ctx)
	case schema.PChoice:
		validateChoiceTop(model, children, ctx)
	case schema.PAll:
		validateAllTop(model, children, ctx)
	case schema.PAny:
		validateAnyTop(model, children, ctx)
	case schema.PElement:
		validateSequence([]*schema.Particle{model}, children, ctx)
	}
}

func validateSequence(items []*schema.Particle, children []instChild, ctx *verrors.Context) {
	idx := 0
	for _, item := range items {
		count := 0
		for idx < len(children) && (item.Max == schema.Unbounded || count < item.Max) && matchesItem(item, children[idx].ns, children[idx].local) {
			idx++
			count++
		}
		if count < item.Min {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Required element %s is missing", describeItem(item))
		}
	}
	for ; idx < len(children); idx++ {
		ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Unexpected element %s", children[idx].local)
	}
}

func validateChoiceTop(model *schema.Particle, children []instChild, ctx *verrors.Context) {
	if len(children) == 0 {
		if model.Min == 0 {
			return
		}
		ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Required element %s is missing", describeItem(model))
		return
	}
	first := children[0]
	matched := false
	for _, branch := range model.Children {
		if matchesItem(branch, first.ns, first.local) {
			matched = true
			break
		}
	}
	if !matched {
		ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Unexpected element %s, expected %s", first.local, branchNames(model.Children))
	}
	if model.Max == 1 {
		for _, extra := range children[1:] {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Unexpected element %s", extra.local)
		}
	}
}

func branchNames(branches []*schema.Particle) string {
	out := ""
	for i, b := range branches {
		if i > 0 {
			out += ", "
		}
		out += describeItem(b)
	}
	return out
}

func validateAllTop(model *schema.Particle, children []instChild, ctx *verrors.Context) {
	seen := make(map[*schema.Particle]int, len(model.Children))
	for _, inst := range children {
		var matched *schema.Particle
		for _, item := range model.Children {
			if matchesItem(item, inst.ns, inst.local) {
				matched = item
				break
			}
		}
		if matched == nil {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Unexpected element %s", inst.local)
			continue
		}
		seen[matched]++
		if matched.Max == 1 && seen[matched] > 1 {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Duplicate element %s", describeItem(matched))
		}
	}
	for _, item := range model.Children {
		if item.Min > 0 && seen[item] == 0 {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Required element %s is missing", describeItem(item))
		}
	}
}

func validateAnyTop(model *schema.Particle, children []instChild, ctx *verrors.Context) {
	count := 0
	for _, inst := range children {
		if !model.MatchesAny(model.TargetNamespace, inst.ns) {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Unexpected element %s", inst.local)
			continue
		}
		count++
		if model.Max != schema.Unbounded && count > model.Max {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Unexpected element %s", inst.local)
		}
	}
	if count < model.Min {
		ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Required element %s is missing", "any")
	}
}
