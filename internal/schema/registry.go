package schema

import "sort"

// qname is an internal (namespace, local-name) lookup key.
type qname struct {
	ns    string
	local string
}

// Builder accumulates type definitions during load and produces an
// immutable Registry via Build(). Per spec.md §9 "Process-wide
// registries": "construct them inside an immutable handle produced by a
// builder; inject the handle into validators" — there is no mutable
// global singleton here.
type Builder struct {
	prefixToNS map[string]string
	candidates map[qname][]*ElementConstraint // all candidates, declaration order
}

// NewBuilder creates a Builder seeded with a prefix->namespace-URI map.
func NewBuilder(prefixToNS map[string]string) *Builder {
	return &Builder{
		prefixToNS: prefixToNS,
		candidates: make(map[qname][]*ElementConstraint),
	}
}

// register adds a concrete element's constraint as a candidate for its
// qualified name.
func (b *Builder) register(ns, local string, ec *ElementConstraint) {
	k := qname{ns, local}
	b.candidates[k] = append(b.candidates[k], ec)
}

// Build finalizes the builder into an immutable Registry, computing the
// default ("richest") candidate per tag (spec.md §4.3).
func (b *Builder) Build() *Registry {
	r := &Registry{
		prefixToNS: cloneMap(b.prefixToNS),
		candidates: make(map[qname][]*ElementConstraint, len(b.candidates)),
		defaults:   make(map[qname]*ElementConstraint, len(b.candidates)),
	}
	for k, cs := range b.candidates {
		cs := cs // capture
		r.candidates[k] = cs
		r.defaults[k] = richest(cs)
	}
	return r
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// richest picks the default candidate by the load-time scoring rule
// (spec.md §4.3), tie-breaking by declaration order (first wins).
func richest(cs []*ElementConstraint) *ElementConstraint {
	best := cs[0]
	bestScore := best.score()
	for _, c := range cs[1:] {
		if s := c.score(); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best
}

// Registry is the immutable, process-wide, concurrently-shareable result
// of loading schema JSON (spec.md §5 "Resource ownership": "Constraint
// registries are process-wide, built once... immutable; they are safely
// shareable across concurrent validations").
type Registry struct {
	prefixToNS map[string]string
	candidates map[qname][]*ElementConstraint
	defaults   map[qname]*ElementConstraint
}

// Default returns the registry's default ("richest") candidate for a
// tag, used as a load-time fallback when per-instance disambiguation
// (BestCandidate) cannot decide (spec.md §4.3 "fallback to registry's
// default candidate").
func (r *Registry) Default(ns, local string) (*ElementConstraint, bool) {
	ec, ok := r.defaults[qname{ns, local}]
	return ec, ok
}

// Candidates returns every registered candidate for a tag, in
// declaration order.
func (r *Registry) Candidates(ns, local string) []*ElementConstraint {
	return r.candidates[qname{ns, local}]
}

// NamespaceFor resolves a prefix to its namespace URI.
func (r *Registry) NamespaceFor(prefix string) (string, bool) {
	uri, ok := r.prefixToNS[prefix]
	return uri, ok
}

// InstanceChild describes one actual child element encountered on a
// document instance, used for per-instance candidate scoring.
type InstanceChild struct {
	Namespace string
	LocalName string
}

// BestCandidate implements spec.md §4.3 "Best-candidate selection per
// instance": given an element's actual attribute set and children, pick
// the candidate whose required attributes are all present and whose
// (specific-matches, total-matches) score is highest. Ties break by
// declaration order; falls back to the registry's default candidate.
//
// The result is not memoized: the Schema Validator calls this once per
// instance element. It is a pure function of its inputs over the
// immutable registry, so repeated calls with the same inputs return the
// same constraint; the per-tag Default lookup is a plain map read.
func (r *Registry) BestCandidate(ns, local string, presentAttrs map[string]bool, children []InstanceChild) (*ElementConstraint, bool) {
	cands := r.candidates[qname{ns, local}]
	if len(cands) == 0 {
		return nil, false
	}
	if len(cands) == 1 {
		return cands[0], true
	}

	type scored struct {
		ec                         *ElementConstraint
		specific, total            int
		requiredSatisfied          bool
		declOrder                  int
	}
	var ranked []scored
	for i, ec := range cands {
		reqOK := true
		for _, req := range ec.RequiredAttributes() {
			if !presentAttrs[req] {
				reqOK = false
				break
			}
		}
		qnames := make(map[[2]string]bool)
		ec.ContentModel.QNames(qnames)
		hasAny := ec.ContentModel.HasAny()

		specific, total := 0, 0
		for _, ch := range children {
			if qnames[[2]string{ch.Namespace, ch.LocalName}] {
				specific++
				total++
			} else if hasAny {
				total++
			}
		}
		ranked = append(ranked, scored{ec: ec, specific: specific, total: total, requiredSatisfied: reqOK, declOrder: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.requiredSatisfied != b.requiredSatisfied {
			return a.requiredSatisfied // satisfied-required candidates sort first
		}
		if a.specific != b.specific {
			return a.specific > b.specific
		}
		if a.total != b.total {
			return a.total > b.total
		}
		return a.declOrder < b.declOrder
	})

	if len(ranked) > 0 {
		return ranked[0].ec, true
	}
	return r.Default(ns, local)
}
