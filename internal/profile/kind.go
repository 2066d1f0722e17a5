// Package profile implements the Document-Profile Driver (spec.md
// §4.9): document-kind detection, the per-kind structural walk, the
// required-relationship set, cross-part wiring checks, and the 7-phase
// validation pipeline tying together the Package Reader, Schema
// Validator, Semantic Validator, and Binary Payload Validator.
package profile

import (
	"strings"

	"github.com/vortex/ooxml-audit/internal/opc"
)

// Kind is the detected OOXML document family.
type Kind int

const (
	KindUnknown Kind = iota
	KindPresentation
	KindWord
	KindSpreadsheet
)

func (k Kind) String() string {
	switch k {
	case KindPresentation:
		return "Presentation"
	case KindWord:
		return "Word"
	case KindSpreadsheet:
		return "Spreadsheet"
	default:
		return "Unknown"
	}
}

// DetectKind implements spec.md §4.9's detection rule: main-part content
// type first, falling back to a URI substring.
func DetectKind(mainContentType string, mainURI opc.PackURI) Kind {
	ct := strings.ToLower(mainContentType)
	uri := string(mainURI)
	switch {
	case strings.Contains(ct, "presentationml") || strings.Contains(uri, "/ppt/"):
		return KindPresentation
	case strings.Contains(ct, "wordprocessingml") || strings.Contains(uri, "/word/"):
		return KindWord
	case strings.Contains(ct, "spreadsheetml") || strings.Contains(uri, "/xl/"):
		return KindSpreadsheet
	default:
		return KindUnknown
	}
}
