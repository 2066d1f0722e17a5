package schemaval

import (
	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/verrors"
	"github.com/vortex/ooxml-audit/internal/xmlutil"
)

// validateAttributes implements spec.md §4.6 step 3: every required
// attribute must be present; present declared attributes are
// type-checked and fixed-value-checked.
func validateAttributes(ec *schema.ElementConstraint, el *etree.Element, scope xmlutil.Scope, ctx *verrors.Context) {
	for _, ac := range ec.Attributes {
		raw, present := lookupAttr(el, scope, ac)
		if !present {
			if ac.Required {
				ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Required attribute %s is missing", ac.LocalName)
			}
			continue
		}
		if ac.HasFixed && raw != ac.Fixed {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Attribute %s must equal fixed value %q, got %q", ac.LocalName, ac.Fixed, raw)
			continue
		}
		if ac.Validator != nil {
			if msg := ac.Validator.Validate(raw); msg != "" {
				ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "Attribute %s: %s", ac.LocalName, msg)
			}
		}
	}
}

// lookupAttr finds the instance attribute matching a declared
// AttributeConstraint by (namespace, local-name).
func lookupAttr(el *etree.Element, scope xmlutil.Scope, ac *schema.AttributeConstraint) (string, bool) {
	for _, a := range el.Attr {
		ns, local := xmlutil.QualifyAttr(a, scope)
		if local == ac.LocalName && ns == ac.Namespace {
			return a.Value, true
		}
	}
	return "", false
}

// presentAttrSet builds the set of declared-local-name -> present used by
// Registry.BestCandidate's required-attribute eligibility check.
func presentAttrSet(el *etree.Element) map[string]bool {
	out := make(map[string]bool, len(el.Attr))
	for _, a := range el.Attr {
		out[a.Key] = true
	}
	return out
}
