// Package schema implements the Schema Registry (spec.md §4.3): loading
// element-type definitions from external JSON, building a namespace-aware
// lookup, and picking the best type when a tag has ambiguous definitions.
//
// Grounded on go-docx's oxml attribute-conversion helpers (attrconv.go)
// for the string<->typed-value direction, generalized to the full
// TypeValidator variant set spec.md §3 names.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidatorKind discriminates the TypeValidator tagged variant.
type ValidatorKind int

const (
	TString ValidatorKind = iota
	TBoolean
	TInteger
	TDecimal
	TDateTime
	THexBinary
	TNCName
	TAnyURI
)

// TypeValidator validates a raw XML attribute string against one of the
// XSD-derived primitive types named in spec.md §3.
type TypeValidator struct {
	Kind ValidatorKind

	// String
	MinLength, MaxLength *int
	Pattern              *regexp.Regexp
	Enumeration          []string

	// Integer / Decimal bounds (inclusive unless *Exclusive is set)
	Min, Max                   *float64
	MinExclusive, MaxExclusive bool
}

var ncNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// Validate checks raw against the validator and returns a human-readable
// error when it fails, or "" when it passes.
func (v *TypeValidator) Validate(raw string) string {
	switch v.Kind {
	case TBoolean:
		switch raw {
		case "true", "false", "1", "0":
			return ""
		default:
			return fmt.Sprintf("value %q is not a valid boolean", raw)
		}
	case TInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Sprintf("value %q is not a valid integer", raw)
		}
		return v.checkBounds(float64(n), raw)
	case TDecimal:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Sprintf("value %q is not a valid decimal", raw)
		}
		return v.checkBounds(f, raw)
	case TDateTime:
		if _, err := parseXSDDateTime(raw); err != nil {
			return fmt.Sprintf("value %q is not a valid dateTime: %v", raw, err)
		}
		return ""
	case THexBinary:
		if len(raw)%2 != 0 {
			return fmt.Sprintf("value %q is not valid hexBinary (odd length)", raw)
		}
		for _, r := range raw {
			if !isHexDigit(r) {
				return fmt.Sprintf("value %q is not valid hexBinary", raw)
			}
		}
		return ""
	case TNCName:
		if !ncNameRe.MatchString(raw) {
			return fmt.Sprintf("value %q is not a valid NCName", raw)
		}
		return ""
	case TAnyURI:
		// XSD anyURI is permissive; reject only embedded whitespace.
		if strings.ContainsAny(raw, " \t\n\r") {
			return fmt.Sprintf("value %q is not a valid anyURI", raw)
		}
		return ""
	case TString:
		fallthrough
	default:
		if v.MinLength != nil && len(raw) < *v.MinLength {
			return fmt.Sprintf("value %q is shorter than minimum length %d", raw, *v.MinLength)
		}
		if v.MaxLength != nil && len(raw) > *v.MaxLength {
			return fmt.Sprintf("value %q exceeds maximum length %d", raw, *v.MaxLength)
		}
		if v.Pattern != nil && !v.Pattern.MatchString(raw) {
			return fmt.Sprintf("value %q does not match required pattern", raw)
		}
		if len(v.Enumeration) > 0 {
			for _, e := range v.Enumeration {
				if e == raw {
					return ""
				}
			}
			return fmt.Sprintf("value %q is not one of the allowed values", raw)
		}
		return ""
	}
}

func (v *TypeValidator) checkBounds(n float64, raw string) string {
	if v.Min != nil {
		if v.MinExclusive && n <= *v.Min {
			return fmt.Sprintf("value %q must be greater than %v", raw, *v.Min)
		}
		if !v.MinExclusive && n < *v.Min {
			return fmt.Sprintf("value %q must be at least %v", raw, *v.Min)
		}
	}
	if v.Max != nil {
		if v.MaxExclusive && n >= *v.Max {
			return fmt.Sprintf("value %q must be less than %v", raw, *v.Max)
		}
		if !v.MaxExclusive && n > *v.Max {
			return fmt.Sprintf("value %q must be at most %v", raw, *v.Max)
		}
	}
	return ""
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// parseXSDDateTime validates the XSD dateTime lexical form and calendar
// validity (spec.md §3: "XSD dateTime lexical + calendar validity").
func parseXSDDateTime(raw string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// SDKTypeToXSD is the fixed table from spec.md §4.3 mapping SDK value
// type names to XSD primitive type names.
var SDKTypeToXSD = map[string]string{
	"StringValue":       "string",
	"BooleanValue":      "boolean",
	"Int16Value":        "short",
	"Int32Value":        "int",
	"Int64Value":        "long",
	"UInt16Value":       "unsignedShort",
	"UInt32Value":       "unsignedInt",
	"UInt64Value":       "unsignedLong",
	"ByteValue":         "byte",
	"SByteValue":        "unsignedByte",
	"SingleValue":       "float",
	"DoubleValue":       "double",
	"DecimalValue":      "decimal",
	"DateTimeValue":     "dateTime",
	"HexBinaryValue":    "hexBinary",
	"Base64BinaryValue": "base64Binary",
}

// ResolveSDKType maps an SDK value-type name to its XSD type name. Any
// "EnumValue<...>" generic form maps to "string" (spec.md §4.3).
func ResolveSDKType(sdkName string) string {
	if strings.HasPrefix(sdkName, "EnumValue<") {
		return "string"
	}
	if xsd, ok := SDKTypeToXSD[sdkName]; ok {
		return xsd
	}
	return "string"
}

// xsdKindFor maps an XSD primitive type name to a ValidatorKind, for
// constructing a TypeValidator from a bare type-name string (used when
// the schema JSON only gives a type name, no facets).
func xsdKindFor(xsdType string) ValidatorKind {
	switch xsdType {
	case "boolean":
		return TBoolean
	case "short", "int", "long", "unsignedShort", "unsignedInt", "unsignedLong", "byte", "unsignedByte":
		return TInteger
	case "float", "double", "decimal":
		return TDecimal
	case "dateTime", "date", "time":
		return TDateTime
	case "hexBinary":
		return THexBinary
	case "NCName", "Name", "ID", "IDREF":
		return TNCName
	case "anyURI":
		return TAnyURI
	default:
		return TString
	}
}

// NewTypeValidator builds a validator for a bare XSD type name with no
// facets (the common case for OOXML attribute types).
func NewTypeValidator(xsdType string) *TypeValidator {
	return &TypeValidator{Kind: xsdKindFor(xsdType)}
}

// xsdPatternReplacer applies the same lossy XPath/XSD-regex-class to
// host-regex substitutions spec.md §4.5 prescribes for Schematron
// `matches()` patterns, reused here since XSD attribute `Pattern` facets
// use the same character-class escapes (\p{L}, \p{N}, \i, \c).
var xsdPatternReplacer = strings.NewReplacer(
	`\p{L}`, `\w`,
	`\p{N}`, `\d`,
	`\i`, `[A-Za-z_:]`,
	`\c`, `[A-Za-z0-9_:.-]`,
)

// compileXSDPattern best-effort translates an XSD regex facet to a host
// regexp.Regexp. Returns an error if the translated pattern fails to
// compile — callers drop the facet rather than reject the schema.
func compileXSDPattern(pattern string) (*regexp.Regexp, error) {
	translated := xsdPatternReplacer.Replace(pattern)
	return regexp.Compile("^(?:" + translated + ")$")
}
