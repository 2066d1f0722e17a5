package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// jsonOccurs mirrors one entry of a particle's "Occurs" array in the
// source schema JSON (spec.md §4.3 "Occurrence parsing (exact)").
type jsonOccurs struct {
	Min *int `json:"Min"`
	Max *int `json:"Max"`
}

// jsonParticle mirrors the Particle shape nested inside jsonType.Particle
// / jsonType.Children.
type jsonParticle struct {
	Kind     string         `json:"Kind"` // "Element", "Sequence", "Choice", "All", "Any", "Group"
	Name     string         `json:"Name"` // for Kind=="Element": "prefix:TYPE/prefix:elem" or "prefix:elem"
	NSMode   string         `json:"NamespaceConstraint"` // for Kind=="Any"
	GroupRef string         `json:"GroupName"`
	Occurs   []jsonOccurs   `json:"Occurs"`
	Children []jsonParticle `json:"Children"`
}

// jsonAttribute mirrors one entry of jsonType.Attributes.
type jsonAttribute struct {
	Namespace string `json:"Namespace"`
	Name      string `json:"Name"`
	Type      string `json:"Type"` // SDK value type name, e.g. "StringValue"
	Required  bool   `json:"Required"`
	Default   string `json:"Default"`
	HasDefault bool  `json:"HasDefault"`
	Fixed      string `json:"Fixed"`
	HasFixed   bool   `json:"HasFixed"`
	MinLength  *int   `json:"MinLength"`
	MaxLength  *int   `json:"MaxLength"`
	Pattern    string `json:"Pattern"`
	Enumeration []string `json:"Enumeration"`
}

// jsonType mirrors one type definition in a per-namespace schema JSON
// file (spec.md §6).
type jsonType struct {
	Name          string          `json:"Name"` // "prefix:TYPE/prefix:elem" or "prefix:TYPE" (abstract)
	ClassName     string          `json:"ClassName"`
	BaseClass     string          `json:"BaseClass"`
	IsAbstract    bool            `json:"IsAbstract"`
	IsDerived     bool            `json:"IsDerived"`
	IsLeafElement bool            `json:"IsLeafElement"`
	Summary       string          `json:"Summary"`
	Attributes    []jsonAttribute `json:"Attributes"`
	Particle      *jsonParticle   `json:"Particle"`
	Children      []jsonParticle  `json:"Children"`
}

// jsonSchemaFile is the top-level shape of one per-namespace JSON file.
type jsonSchemaFile struct {
	TargetNamespace string     `json:"TargetNamespace"`
	Types           []jsonType `json:"Types"`
}

// jsonNamespaces is the shape of the namespaces prefix<->URI file.
type jsonNamespaces map[string]string

// LoadDirectory reads every *.json schema file plus a namespaces file
// from dir and returns a built Registry. Grounded on spec.md §4.3 "On
// first use, loads a directory of per-namespace JSON schema files and a
// namespaces file."
func LoadDirectory(dir string) (*Registry, error) {
	nsPath := filepath.Join(dir, "namespaces.json")
	nsBytes, err := os.ReadFile(nsPath)
	if err != nil {
		return nil, fmt.Errorf("schema: reading namespaces file: %w", err)
	}
	var ns jsonNamespaces
	if err := json.Unmarshal(nsBytes, &ns); err != nil {
		return nil, fmt.Errorf("schema: parsing namespaces file: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("schema: reading schema directory: %w", err)
	}

	b := NewBuilder(ns)
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") || ent.Name() == "namespaces.json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, fmt.Errorf("schema: reading %s: %w", ent.Name(), err)
		}
		if err := b.AddSchemaFile(data); err != nil {
			return nil, fmt.Errorf("schema: parsing %s: %w", ent.Name(), err)
		}
	}
	return b.Build(), nil
}

// AddSchemaFile parses one per-namespace JSON file's bytes and registers
// its types into the builder.
func (b *Builder) AddSchemaFile(data []byte) error {
	var f jsonSchemaFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	for _, t := range f.Types {
		ec, localName, ok := b.convertType(f.TargetNamespace, t)
		if !ok {
			continue // abstract type with no concrete element, not indexable
		}
		b.register(f.TargetNamespace, localName, ec)
	}
	return nil
}

// convertType converts a jsonType into an *ElementConstraint plus the
// local element name it should be indexed under (the second dotted
// segment of Name, which is absent for purely abstract types).
func (b *Builder) convertType(targetNS string, t jsonType) (*ElementConstraint, string, bool) {
	_, elemPart, hasElem := splitSDKName(t.Name)
	if !hasElem {
		return nil, "", false
	}
	_, localName := splitPrefixed(elemPart)

	ec := &ElementConstraint{
		Namespace:  targetNS,
		LocalName:  localName,
		IsLeaf:     t.IsLeafElement,
		IsAbstract: t.IsAbstract,
		IsDerived:  t.IsDerived,
		SDKName:    t.Name,
	}
	for _, a := range t.Attributes {
		ac := &AttributeConstraint{
			Namespace:  a.Namespace,
			LocalName:  a.Name,
			Required:   a.Required,
			Default:    a.Default,
			HasDefault: a.HasDefault,
			Fixed:      a.Fixed,
			HasFixed:   a.HasFixed,
		}
		xsd := ResolveSDKType(a.Type)
		tv := NewTypeValidator(xsd)
		if a.MinLength != nil {
			tv.MinLength = a.MinLength
		}
		if a.MaxLength != nil {
			tv.MaxLength = a.MaxLength
		}
		if a.Pattern != "" {
			if re, err := compileXSDPattern(a.Pattern); err == nil {
				tv.Pattern = re
			}
		}
		if len(a.Enumeration) > 0 {
			tv.Enumeration = a.Enumeration
		}
		ac.Validator = tv
		ec.Attributes = append(ec.Attributes, ac)
	}

	if t.Particle != nil {
		ec.ContentModel = b.convertParticle(targetNS, t.Particle)
	} else if len(t.Children) > 0 {
		// A type with a flat Children list but no top-level Particle is
		// treated as an implicit Sequence, matching how OOXML SDK data
		// represents simple ordered content models.
		seq := &jsonParticle{Kind: "Sequence", Children: t.Children}
		ec.ContentModel = b.convertParticle(targetNS, seq)
	}

	return ec, localName, true
}

// parseOccurs applies spec.md §4.3's exact occurrence rules. When more
// than one occurrence record is present (observed in upstream SDK data
// for particles with alternate occurrence sets) the records are combined
// conservatively: the overall minimum is the smallest Min across
// records, and the overall maximum is unbounded if any record is
// unbounded, else the largest Max. This combination rule is not
// specified further upstream; see DESIGN.md Open Question resolution.
func parseOccurs(occurs []jsonOccurs) (min, max int) {
	if len(occurs) == 0 {
		return 1, 1
	}
	min = -2 // sentinel meaning "not yet set"
	max = 0
	sawUnbounded := false
	for _, o := range occurs {
		m := 0
		if o.Min != nil {
			m = *o.Min
		}
		var mx int
		switch {
		case o.Max == nil && o.Min == nil:
			// Empty occurrence record means unbounded.
			mx = Unbounded
		case o.Max == nil:
			// Min-only occurrence defaults max=unbounded.
			mx = Unbounded
		case *o.Max == 0:
			// Max == 0 means unbounded.
			mx = Unbounded
		default:
			mx = *o.Max
		}
		if min == -2 || m < min {
			min = m
		}
		if mx == Unbounded {
			sawUnbounded = true
		} else if !sawUnbounded && mx > max {
			max = mx
		}
	}
	if sawUnbounded {
		max = Unbounded
	}
	if min == -2 {
		min = 0
	}
	return min, max
}

// convertParticle recursively converts a jsonParticle into a runtime
// Particle tree, resolving Element references' namespace via the
// builder's prefix map and the enclosing schema's target namespace
// (spec.md §4.5 "Element reference resolution").
func (b *Builder) convertParticle(targetNS string, jp *jsonParticle) *Particle {
	if jp == nil {
		return nil
	}
	min, max := parseOccurs(jp.Occurs)

	switch jp.Kind {
	case "Element":
		ns, local := b.resolveElementRef(targetNS, jp.Name)
		return &Particle{Kind: PElement, Min: min, Max: max, Namespace: ns, LocalName: local, TargetNamespace: targetNS}
	case "Any":
		return &Particle{Kind: PAny, Min: min, Max: max, NSConstraint: NamespaceConstraint{Mode: defaultNSMode(jp.NSMode)}, TargetNamespace: targetNS}
	case "Group":
		p := &Particle{Kind: PGroup, Min: min, Max: max, GroupName: jp.GroupRef, TargetNamespace: targetNS}
		for _, c := range jp.Children {
			p.Children = append(p.Children, b.convertParticle(targetNS, &c))
		}
		return p
	case "Choice":
		p := &Particle{Kind: PChoice, Min: min, Max: max, TargetNamespace: targetNS}
		for _, c := range jp.Children {
			p.Children = append(p.Children, b.convertParticle(targetNS, &c))
		}
		return p
	case "All":
		p := &Particle{Kind: PAll, Min: min, Max: max, TargetNamespace: targetNS}
		for _, c := range jp.Children {
			p.Children = append(p.Children, b.convertParticle(targetNS, &c))
		}
		return p
	case "Sequence":
		fallthrough
	default:
		p := &Particle{Kind: PSequence, Min: min, Max: max, TargetNamespace: targetNS}
		for _, c := range jp.Children {
			p.Children = append(p.Children, b.convertParticle(targetNS, &c))
		}
		return p
	}
}

func defaultNSMode(mode string) string {
	if mode == "" {
		return NSAny
	}
	return mode
}

// resolveElementRef resolves a "prefix:TYPE/prefix:elem" or bare
// "prefix:elem" element-particle name to (namespace, local-name),
// per spec.md §4.5.
func (b *Builder) resolveElementRef(targetNS, name string) (string, string) {
	_, elemPart, hasElem := splitSDKName(name)
	ref := name
	if hasElem {
		ref = elemPart
	}
	prefix, local := splitPrefixed(ref)
	if prefix == "" {
		return targetNS, local
	}
	if uri, ok := b.prefixToNS[prefix]; ok {
		return uri, local
	}
	return targetNS, local
}

// splitSDKName splits a "prefix:TYPE/prefix:elem" dotted SDK name into
// its two segments. The second segment may be absent for abstract types
// (spec.md §4.3).
func splitSDKName(name string) (typePart, elemPart string, hasElem bool) {
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return name, "", false
	}
	return name[:idx], name[idx+1:], true
}

// splitPrefixed splits "prefix:local" into (prefix, local); a name with
// no colon has an empty prefix.
func splitPrefixed(s string) (prefix, local string) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", s
	}
	return s[:idx], s[idx+1:]
}
