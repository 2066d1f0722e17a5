package semanticval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/schematron"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// applyConstraintTop is the emitting entry point for one compiled
// Constraint against one element. Composite kinds control their own
// emission discipline (spec.md §4.7 "Or must discard errors from failed
// branches and emit only a summary if all fail"); leaf kinds emit a
// single error from evalConstraint's verdict.
func (v *Validator) applyConstraintTop(el *etree.Element, c *bridge.Constraint, rels *opc.Collection, ctx *verrors.Context) {
	switch c.Kind {
	case schematron.KindUniqueAttribute:
		v.checkUniqueAttribute(el, c, ctx)
	case schematron.KindOrCondition:
		anyOK := false
		for _, sub := range c.Sub {
			if ok, _ := v.evalConstraint(el, sub, rels); ok {
				anyOK = true
				break
			}
		}
		if !anyOK {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "None of the alternative conditions on %s were satisfied", contextLabel(c))
		}
	case schematron.KindAndCondition:
		for _, sub := range c.Sub {
			v.applyConstraintTop(el, sub, rels, ctx)
		}
	case schematron.KindConditionalValue:
		if _, present := getAttr(el, c.Attr); present && len(c.Sub) > 0 {
			v.applyConstraintTop(el, c.Sub[0], rels, ctx)
		}
	case schematron.KindCrossPartCount:
		v.checkCrossPartCount(el, c, ctx)
	case schematron.KindElementReference:
		// Resolved by the document-profile driver's cross-part wiring
		// checks (style/numbering/footnote id tables), not here — a
		// generic same-document scan would duplicate that work poorly.
	default:
		if ok, msg := v.evalConstraint(el, c, rels); !ok {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "%s", msg)
		}
	}
}

// evalConstraint is the pure (non-emitting) verdict for a constraint,
// used both for top-level leaf dispatch and for Or/And/Conditional
// sub-evaluation.
func (v *Validator) evalConstraint(el *etree.Element, c *bridge.Constraint, rels *opc.Collection) (bool, string) {
	switch c.Kind {
	case schematron.KindAttributeValueRange:
		val, ok := getAttr(el, c.Attr)
		if !ok {
			return false, fmt.Sprintf("Attribute %s is missing", c.Attr)
		}
		n, err := strconv.ParseFloat(strings.TrimSuffix(val, "f"), 64)
		if err != nil {
			return false, fmt.Sprintf("Attribute %s value %q is not numeric", c.Attr, val)
		}
		if c.Min != nil && n < *c.Min {
			return false, fmt.Sprintf("Attribute %s value %v is below minimum %v", c.Attr, n, *c.Min)
		}
		if c.Max != nil && n > *c.Max {
			return false, fmt.Sprintf("Attribute %s value %v exceeds maximum %v", c.Attr, n, *c.Max)
		}
		return true, ""

	case schematron.KindAttributeValueLength:
		val, ok := getAttr(el, c.Attr)
		if !ok {
			return false, fmt.Sprintf("Attribute %s is missing", c.Attr)
		}
		n := len(val)
		if c.MinLen != nil && n < *c.MinLen {
			return false, fmt.Sprintf("Attribute %s length %d is below minimum %d", c.Attr, n, *c.MinLen)
		}
		if c.MaxLen != nil && n > *c.MaxLen {
			return false, fmt.Sprintf("Attribute %s length %d exceeds maximum %d", c.Attr, n, *c.MaxLen)
		}
		return true, ""

	case schematron.KindAttributeValuePattern:
		val, ok := getAttr(el, c.Attr)
		if !ok {
			return false, fmt.Sprintf("Attribute %s is missing", c.Attr)
		}
		if c.Regex == nil || !c.Regex.MatchString(val) {
			return false, fmt.Sprintf("Attribute %s value %q does not match the required pattern", c.Attr, val)
		}
		return true, ""

	case schematron.KindRelationshipType:
		val, ok := getAttr(el, c.Attr)
		if !ok {
			return false, fmt.Sprintf("Attribute %s is missing", c.Attr)
		}
		if rels == nil {
			return false, fmt.Sprintf("Attribute %s references relationship %q but no relationship collection applies here", c.Attr, val)
		}
		r, ok := rels.Get(val)
		if !ok {
			return false, fmt.Sprintf("Attribute %s references unresolved relationship id %q", c.Attr, val)
		}
		if r.Type != c.ExpectedValue {
			return false, fmt.Sprintf("Relationship %q must have type %q, got %q", val, c.ExpectedValue, r.Type)
		}
		return true, ""

	case schematron.KindAttributeNotEqual:
		val, ok := getAttr(el, c.Attr)
		if !ok {
			return true, ""
		}
		if val == c.ExpectedValue {
			return false, fmt.Sprintf("Attribute %s must not equal %q", c.Attr, c.ExpectedValue)
		}
		return true, ""

	case schematron.KindAttributeEquals:
		val, ok := getAttr(el, c.Attr)
		if !ok {
			return false, fmt.Sprintf("Attribute %s must equal %q, but is missing", c.Attr, c.ExpectedValue)
		}
		if val != c.ExpectedValue {
			return false, fmt.Sprintf("Attribute %s must equal %q, got %q", c.Attr, c.ExpectedValue, val)
		}
		return true, ""

	case schematron.KindAttributeComparison:
		a, okA := getAttr(el, c.Attr)
		b, okB := getAttr(el, c.OtherAttr)
		if !okA || !okB {
			return false, fmt.Sprintf("Attributes %s and %s are both required for comparison", c.Attr, c.OtherAttr)
		}
		na, erra := strconv.ParseFloat(a, 64)
		nb, errb := strconv.ParseFloat(b, 64)
		if erra != nil || errb != nil {
			return false, fmt.Sprintf("Attributes %s and %s must both be numeric", c.Attr, c.OtherAttr)
		}
		if !compareOp(na, c.CompareOp, nb) {
			return false, fmt.Sprintf("Attribute %s must be %s %s", c.Attr, c.CompareOp, c.OtherAttr)
		}
		return true, ""

	case schematron.KindAttributesPresent:
		var missing []string
		for _, req := range c.RequiredAttrs {
			if _, ok := getAttr(el, req); !ok {
				missing = append(missing, req)
			}
		}
		if len(missing) > 0 {
			return false, fmt.Sprintf("Required attributes missing: %s", strings.Join(missing, ", "))
		}
		return true, ""

	case schematron.KindOrCondition:
		for _, sub := range c.Sub {
			if ok, _ := v.evalConstraint(el, sub, rels); ok {
				return true, ""
			}
		}
		return false, fmt.Sprintf("None of the alternative conditions on %s were satisfied", contextLabel(c))

	case schematron.KindAndCondition:
		for _, sub := range c.Sub {
			if ok, msg := v.evalConstraint(el, sub, rels); !ok {
				return false, msg
			}
		}
		return true, ""

	case schematron.KindConditionalValue:
		if _, present := getAttr(el, c.Attr); !present || len(c.Sub) == 0 {
			return true, ""
		}
		return v.evalConstraint(el, c.Sub[0], rels)

	default:
		return true, ""
	}
}

func compareOp(a float64, op string, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func contextLabel(c *bridge.Constraint) string {
	if c.Context != "" {
		return c.Context
	}
	return "element"
}

// getAttr looks up an attribute by its possibly-prefixed declared name
// ("r:id" or "val"), matching on (prefix, local) rather than the
// resolved namespace URI, since Schematron rule JSON names attributes by
// their SDK prefix the same way the rules were authored.
func getAttr(el *etree.Element, name string) (string, bool) {
	prefix, local := splitPrefixedName(name)
	for _, a := range el.Attr {
		if a.Key == local && a.Space == prefix {
			return a.Value, true
		}
	}
	return "", false
}

// getAttrNS looks up an attribute by an explicit (prefix, local) pair.
func getAttrNS(el *etree.Element, prefix, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Key == local && a.Space == prefix {
			return a.Value, true
		}
	}
	return "", false
}

func splitPrefixedName(name string) (prefix, local string) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}
