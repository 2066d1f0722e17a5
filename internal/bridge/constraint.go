package bridge

import (
	"regexp"

	"github.com/vortex/ooxml-audit/internal/schematron"
)

// Constraint is the runtime form of a classified Schematron rule (spec.md
// §4.5 "produces the obvious predicate objects"). The Semantic Validator
// evaluates these against document elements; this package only
// translates, it never evaluates.
type Constraint struct {
	Context string
	Kind    schematron.Kind

	Attr, OtherAttr string
	Min, Max        *float64
	MinLen, MaxLen  *int
	Regex           *regexp.Regexp
	ExpectedValue   string
	CompareOp       string
	RequiredAttrs   []string
	Sub             []*Constraint

	PartPath string
	XPath    string
	Offset   int
}

// BuildConstraint translates one classified rule into its runtime form.
// It returns ok=false when the rule cannot be represented — currently
// only when an AttributeValuePattern's regex fails to translate and
// compile (spec.md §4.5 "If the converted regex fails to compile, the
// rule is dropped, not an error").
func BuildConstraint(rule *schematron.Rule) (*Constraint, bool) {
	c := &Constraint{
		Context:       rule.Context,
		Kind:          rule.Kind,
		Attr:          rule.Params.Attr,
		OtherAttr:     rule.Params.OtherAttr,
		Min:           rule.Params.Min,
		Max:           rule.Params.Max,
		MinLen:        rule.Params.MinLen,
		MaxLen:        rule.Params.MaxLen,
		ExpectedValue: rule.Params.ExpectedValue,
		CompareOp:     rule.Params.CompareOp,
		RequiredAttrs: rule.Params.RequiredAttrs,
		PartPath:      rule.Params.PartPath,
		XPath:         rule.Params.XPath,
		Offset:        rule.Params.Offset,
	}

	if rule.Kind == schematron.KindAttributeValuePattern {
		re, err := TranslateXPathRegex(rule.Params.Pattern)
		if err != nil {
			return nil, false
		}
		c.Regex = re
	}

	for _, sub := range rule.Params.SubRules {
		built, ok := BuildConstraint(sub)
		if !ok {
			continue
		}
		c.Sub = append(c.Sub, built)
	}

	return c, true
}
