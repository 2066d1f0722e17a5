package opc

import (
	"github.com/beevik/etree"
)

// TargetMode distinguishes package-internal targets from external URIs.
type TargetMode int

const (
	TargetModeInternal TargetMode = iota
	TargetModeExternal
)

// RTOfficeDocument is the well-known relationship type for the package's
// main part (word/presentation/workbook document).
const RTOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

// Relationship is a single {id, type, target, mode} record.
type Relationship struct {
	ID     string
	Type   string
	Target string // raw TargetRef as it appeared in the XML
	Mode   TargetMode
}

// IsExternal reports whether this relationship targets an external URI.
func (r *Relationship) IsExternal() bool { return r.Mode == TargetModeExternal }

// Collection indexes the relationships owned by a single source URI
// (the package root or one specific part) by id and by type.
//
// Grounded on go-docx/pkg/docx/opc/package.go's Relationships usage
// (rels.Load, rels.All, rels.GetByRelType) but simplified: this module
// never creates or mutates relationships, only resolves them.
type Collection struct {
	source PackURI
	byID   map[string]*Relationship
	order  []*Relationship // insertion order, for deterministic iteration
}

// NewCollection creates an empty relationship collection owned by source.
func NewCollection(source PackURI) *Collection {
	return &Collection{source: source, byID: make(map[string]*Relationship)}
}

// ParseRelationships parses a .rels XML document. On parse failure it
// returns an empty collection — the caller observes the underlying
// Schema error separately via the package reader (spec.md §4.2).
func ParseRelationships(blob []byte, source PackURI) *Collection {
	c := NewCollection(source)
	if blob == nil {
		return c
	}
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(blob); err != nil {
		return c
	}
	root := doc.Root()
	if root == nil {
		return c
	}
	for _, child := range root.ChildElements() {
		if child.Tag != "Relationship" {
			continue
		}
		id := child.SelectAttrValue("Id", "")
		if id == "" {
			continue
		}
		mode := TargetModeInternal
		if child.SelectAttrValue("TargetMode", "Internal") == "External" {
			mode = TargetModeExternal
		}
		rel := &Relationship{
			ID:     id,
			Type:   child.SelectAttrValue("Type", ""),
			Target: child.SelectAttrValue("Target", ""),
			Mode:   mode,
		}
		if _, dup := c.byID[id]; dup {
			// Duplicate ids within one .rels file are a Relationship-kind
			// error, not a parse failure; the caller (opc.Reader /
			// semantic validator) is responsible for reporting it via
			// DuplicateIDs(), so we keep the *first* occurrence here to
			// match "insertion order" semantics and surface the dup
			// separately.
			continue
		}
		c.byID[id] = rel
		c.order = append(c.order, rel)
	}
	return c
}

// Get returns the relationship with the given id.
func (c *Collection) Get(id string) (*Relationship, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// ByType returns the first relationship of the given type, matching
// OpcPackage.RelatedPart's single-relationship contract.
func (c *Collection) ByType(relType string) (*Relationship, bool) {
	for _, r := range c.order {
		if r.Type == relType {
			return r, true
		}
	}
	return nil, false
}

// AllByType returns every relationship of the given type, in document
// (insertion) order.
func (c *Collection) AllByType(relType string) []*Relationship {
	var out []*Relationship
	for _, r := range c.order {
		if r.Type == relType {
			out = append(out, r)
		}
	}
	return out
}

// All returns every relationship, in insertion order.
func (c *Collection) All() []*Relationship {
	return c.order
}

// ResolveTarget combines the stored target with the source's directory
// and normalizes the result. External targets are returned verbatim
// (opaque, per spec.md §3). Idempotent per spec.md §8.
func (c *Collection) ResolveTarget(id string) (string, bool) {
	r, ok := c.byID[id]
	if !ok {
		return "", false
	}
	if r.IsExternal() {
		return r.Target, true
	}
	return string(FromRelRef(c.source.BaseURI(), r.Target)), true
}

// DuplicateIDs re-scans the raw XML and returns any relationship ids that
// appeared more than once. Kept separate from ParseRelationships (which
// silently keeps the first) so the semantic/relationship-integrity phase
// can decide how to report it (spec.md §4.7 "Relationship integrity per
// part").
func DuplicateIDs(blob []byte) []string {
	if blob == nil {
		return nil
	}
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(blob); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}
	seen := make(map[string]int)
	var order []string
	for _, child := range root.ChildElements() {
		if child.Tag != "Relationship" {
			continue
		}
		id := child.SelectAttrValue("Id", "")
		if id == "" {
			continue
		}
		if _, ok := seen[id]; !ok {
			order = append(order, id)
		}
		seen[id]++
	}
	var dups []string
	for _, id := range order {
		if seen[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

// Source returns the URI that owns this collection.
func (c *Collection) Source() PackURI { return c.source }
