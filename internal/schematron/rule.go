// Package schematron implements the Schematron Registry (spec.md §4.4):
// loading raw rule records and classifying each rule's XPath test into
// one of the canonical semantic kinds, extracting parameters.
//
// Grounded on the same etree/regexp-only dependency discipline as
// internal/schema — this package has no etree dependency itself (it
// operates purely on the rule's `Test` string), matching spec.md §4.4's
// description of the classifier as "a sequence of regex matchers."
package schematron

// App restricts which OOXML application a rule applies to.
type App int

const (
	AppAll App = iota
	AppWord
	AppExcel
	AppPowerPoint
)

func ParseApp(s string) App {
	switch s {
	case "Word", "word", "wordprocessingml":
		return AppWord
	case "Excel", "excel", "spreadsheetml":
		return AppExcel
	case "PowerPoint", "powerpoint", "presentationml":
		return AppPowerPoint
	default:
		return AppAll
	}
}

// Kind is the canonical semantic classification of a Schematron test
// expression (spec.md §3, the 14 named kinds + Unknown).
type Kind int

const (
	KindAttributeValueRange Kind = iota
	KindAttributeValueLength
	KindAttributeValuePattern
	KindUniqueAttribute
	KindRelationshipType
	KindElementReference
	KindAttributeNotEqual
	KindAttributeEquals
	KindAttributeComparison
	KindOrCondition
	KindAndCondition
	KindAttributesPresent
	KindCrossPartCount
	KindConditionalValue
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindAttributeValueRange:
		return "AttributeValueRange"
	case KindAttributeValueLength:
		return "AttributeValueLength"
	case KindAttributeValuePattern:
		return "AttributeValuePattern"
	case KindUniqueAttribute:
		return "UniqueAttribute"
	case KindRelationshipType:
		return "RelationshipType"
	case KindElementReference:
		return "ElementReference"
	case KindAttributeNotEqual:
		return "AttributeNotEqual"
	case KindAttributeEquals:
		return "AttributeEquals"
	case KindAttributeComparison:
		return "AttributeComparison"
	case KindOrCondition:
		return "OrCondition"
	case KindAndCondition:
		return "AndCondition"
	case KindAttributesPresent:
		return "AttributesPresent"
	case KindCrossPartCount:
		return "CrossPartCount"
	case KindConditionalValue:
		return "ConditionalValue"
	default:
		return "Unknown"
	}
}

// Params is the union of every field a classified rule might extract
// (spec.md §3 "extracted-params"). Only the fields relevant to Kind are
// populated; zero values elsewhere.
type Params struct {
	Attr     string // primary attribute name
	OtherAttr string // second attribute, for AttributeComparison

	Min, Max       *float64 // AttributeValueRange
	MinLen, MaxLen *int     // AttributeValueLength

	Pattern string // AttributeValuePattern: raw regex literal

	ExpectedValue string // AttributeEquals / AttributeNotEqual / RelationshipType
	CompareOp     string // AttributeComparison: one of <, <=, >, >=

	RequiredAttrs []string // AttributesPresent

	SubRules []*Rule // OrCondition / AndCondition / ConditionalValue

	PartPath string // CrossPartCount: the <path> of "Part:<path>"
	XPath    string // CrossPartCount: nested xpath
	Offset   int    // CrossPartCount: "+K"
}

// Rule is one parsed Schematron assertion (spec.md §3 "SchematronRule").
type Rule struct {
	Context string // element QName the rule applies to
	Test    string // raw XPath-style test expression
	App     App
	Kind    Kind
	Params  Params
}
