package schematron

import "encoding/json"

// jsonRule is the on-disk shape of one rule record.
type jsonRule struct {
	Context string `json:"Context"`
	Test    string `json:"Test"`
	App     string `json:"App"`
}

// LoadRules decodes a JSON array of {Context, Test, App} records and
// classifies each one (spec.md §4.4 "Loads a JSON array of rules and
// classifies each test").
func LoadRules(data []byte) ([]*Rule, error) {
	var raw []jsonRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	rules := make([]*Rule, 0, len(raw))
	for _, jr := range raw {
		kind, params := Classify(jr.Test)
		rules = append(rules, &Rule{
			Context: jr.Context,
			Test:    jr.Test,
			App:     ParseApp(jr.App),
			Kind:    kind,
			Params:  params,
		})
	}
	return rules, nil
}

// Registry groups classified rules by their element context for lookup
// by the Semantic Validator and Constraint Bridge.
type Registry struct {
	byContext map[string][]*Rule
	all       []*Rule
}

// NewRegistry builds a context-indexed registry from a flat rule slice,
// preserving declaration order within each context.
func NewRegistry(rules []*Rule) *Registry {
	r := &Registry{byContext: make(map[string][]*Rule, len(rules)), all: rules}
	for _, rule := range rules {
		r.byContext[rule.Context] = append(r.byContext[rule.Context], rule)
	}
	return r
}

// ForContext returns the rules whose Context matches the given element
// QName string, in declaration order.
func (r *Registry) ForContext(context string) []*Rule {
	return r.byContext[context]
}

// All returns every rule in the registry, in declaration order.
func (r *Registry) All() []*Rule {
	return r.all
}

// LoadRegistry is a convenience wrapper combining LoadRules and
// NewRegistry for a single JSON document.
func LoadRegistry(data []byte) (*Registry, error) {
	rules, err := LoadRules(data)
	if err != nil {
		return nil, err
	}
	return NewRegistry(rules), nil
}
