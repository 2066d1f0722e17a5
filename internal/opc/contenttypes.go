package opc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ContentTypes holds the Default (extension → media-type) and Override
// (part-URI → media-type) mappings parsed from [Content_Types].xml.
//
// Grounded on go-docx's XmlPart etree usage (part.go): parse with
// Permissive read settings, walk ChildElements, read attributes via
// SelectAttrValue.
type ContentTypes struct {
	defaults  map[string]string // extension (lowercase, no dot) -> media type
	overrides map[PackURI]string
}

// ParseContentTypes parses [Content_Types].xml. Unknown child elements
// are ignored (spec.md §4.2).
func ParseContentTypes(blob []byte) (*ContentTypes, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(blob); err != nil {
		return nil, fmt.Errorf("opc: parsing [Content_Types].xml: %w", err)
	}
	root := doc.Root()
	ct := &ContentTypes{
		defaults:  make(map[string]string),
		overrides: make(map[PackURI]string),
	}
	if root == nil {
		return ct, nil
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "Default":
			ext := child.SelectAttrValue("Extension", "")
			mt := child.SelectAttrValue("ContentType", "")
			if ext != "" && mt != "" {
				ct.defaults[strings.ToLower(ext)] = mt
			}
		case "Override":
			pn := child.SelectAttrValue("PartName", "")
			mt := child.SelectAttrValue("ContentType", "")
			if pn != "" && mt != "" {
				ct.overrides[Normalize(pn)] = mt
			}
		}
	}
	return ct, nil
}

// ContentType looks up the media type for a part, override first, else
// the extension default. Returns ("", false) for unknown types (spec.md
// §4.2: "Silently returns absent for unknown types").
//
// PartName lookup is case-sensitive per OPC (spec.md §8 round-trip
// property); extension lookup is case-insensitive since file extensions
// are conventionally compared case-insensitively.
func (ct *ContentTypes) ContentType(uri PackURI) (string, bool) {
	if mt, ok := ct.overrides[uri]; ok {
		return mt, true
	}
	if mt, ok := ct.defaults[uri.Ext()]; ok {
		return mt, true
	}
	return "", false
}

// Overrides exposes the override map for iteration (used by the round-
// trip property test and by profile content-type/extension checks).
func (ct *ContentTypes) Overrides() map[PackURI]string {
	return ct.overrides
}

// Defaults exposes the default map for iteration.
func (ct *ContentTypes) Defaults() map[string]string {
	return ct.defaults
}
