package schema

// AttributeConstraint is a single attribute declaration on an
// ElementConstraint (spec.md §3).
type AttributeConstraint struct {
	Namespace string // "" for unqualified attributes
	LocalName string
	Validator *TypeValidator // nil if untyped (treated as string, unchecked)
	Required  bool
	Default   string
	HasDefault bool
	Fixed      string
	HasFixed   bool
}

// ElementConstraint is the schema-derived rule set for one element type
// (spec.md §3).
type ElementConstraint struct {
	Namespace    string
	LocalName    string
	Attributes   []*AttributeConstraint
	ContentModel *Particle // nil if the element has no content model (leaf or any-content)
	AllowsText   bool

	// IsLeaf/IsAbstract/IsDerived mirror the schema JSON class flags
	// (spec.md §6) and feed the registry's scoring.
	IsLeaf     bool
	IsAbstract bool
	IsDerived  bool

	// SDKName is the dotted "prefix:TYPE/prefix:elem" name as it appeared
	// in the source JSON, kept for diagnostics.
	SDKName string
}

// RequiredAttributes returns the local names of every required
// attribute, used by the "every attribute in K.required_attributes()"
// invariant (spec.md §8).
func (ec *ElementConstraint) RequiredAttributes() []string {
	var out []string
	for _, a := range ec.Attributes {
		if a.Required {
			out = append(out, a.LocalName)
		}
	}
	return out
}

// FindAttribute looks up a declared attribute by local name (namespace-
// qualified attributes are rare in OOXML content models; callers that
// need namespace disambiguation should filter the returned set
// themselves via Attributes).
func (ec *ElementConstraint) FindAttribute(local string) (*AttributeConstraint, bool) {
	for _, a := range ec.Attributes {
		if a.LocalName == local {
			return a, true
		}
	}
	return nil, false
}

// score computes the "richer candidate" score used at load time to pick
// a primary definition when multiple type definitions collide on a tag
// (spec.md §4.3):
//
//	+100 if not a leaf element
//	+50  if it has a particle
//	+particle-item-count
//	+attribute-count
func (ec *ElementConstraint) score() int {
	s := 0
	if !ec.IsLeaf {
		s += 100
	}
	if ec.ContentModel != nil {
		s += 50
		s += ec.ContentModel.ItemCount()
	}
	s += len(ec.Attributes)
	return s
}
