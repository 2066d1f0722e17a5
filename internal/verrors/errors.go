// Package verrors defines the validation error taxonomy and the bounded,
// order-preserving collection used across every pipeline phase.
//
// Mirrors the shape of go-docx/pkg/docx/errors.go (typed errors with an
// Unwrap chain) but for values that are *collected*, never returned, per
// spec.md §7: "Inside the core, errors are collected, never thrown."
package verrors

import "fmt"

// Kind classifies a ValidationError by the pipeline phase that raised it.
type Kind int

const (
	KindPackage Kind = iota
	KindBinary
	KindSchema
	KindSemantic
	KindRelationship
	KindMarkupCompatibility
)

func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "Package"
	case KindBinary:
		return "Binary"
	case KindSchema:
		return "Schema"
	case KindSemantic:
		return "Semantic"
	case KindRelationship:
		return "Relationship"
	case KindMarkupCompatibility:
		return "MarkupCompatibility"
	default:
		return "Unknown"
	}
}

// Severity is orthogonal to Kind.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// ValidationError is a single reported violation, with enough locational
// detail to remediate.
type ValidationError struct {
	Kind        Kind
	Severity    Severity
	Description string
	Part        string // part URI, e.g. "/word/document.xml"
	Path        string // element path within the part, e.g. "w:document/w:body/w:p[2]"
	Node        string // local name of the offending node, if applicable
	RelatedNode string
	ID          string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s[%s] %s (part=%s path=%s)", e.Kind, e.Severity, e.Description, e.Part, e.Path)
}

// Equal implements the interoperability equality rule from spec.md §6:
// two errors compare equal iff (Description.trim, Part, Path) match.
func (e *ValidationError) Equal(other *ValidationError) bool {
	if other == nil {
		return false
	}
	return trimSpace(e.Description) == trimSpace(other.Description) &&
		e.Part == other.Part &&
		e.Path == other.Path
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
