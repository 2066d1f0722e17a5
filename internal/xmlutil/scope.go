// Package xmlutil holds small namespace-scope helpers shared by the
// Schema and Semantic validators. beevik/etree exposes only the raw
// Space prefix string on elements and attributes — it does not resolve
// prefixes against in-scope xmlns declarations — so both validators
// need the same scope-tracking walk.
package xmlutil

import "github.com/beevik/etree"

// Scope is a prefix->namespace-URI map; the empty string key holds the
// default (unprefixed) namespace.
type Scope map[string]string

// Resolve returns the in-scope map for el, given the scope inherited
// from its parent. Only el's own xmlns/xmlns:* declarations are
// overlaid onto the inherited map.
func Resolve(el *etree.Element, parent Scope) Scope {
	scope := parent
	copied := false
	for _, attr := range el.Attr {
		switch {
		case attr.Space == "" && attr.Key == "xmlns":
			scope = clone(scope, copied)
			copied = true
			scope[""] = attr.Value
		case attr.Space == "xmlns":
			scope = clone(scope, copied)
			copied = true
			scope[attr.Key] = attr.Value
		}
	}
	return scope
}

func clone(parent Scope, already bool) Scope {
	if already {
		return parent
	}
	out := make(Scope, len(parent)+1)
	for k, v := range parent {
		out[k] = v
	}
	return out
}

// Qualify resolves an element's (prefix, tag) to (namespace, local).
func Qualify(el *etree.Element, scope Scope) (namespace, local string) {
	return scope[el.Space], el.Tag
}

// QualifyAttr resolves an attribute's namespace. Unprefixed attributes
// carry no namespace, unlike unprefixed elements (XML Namespaces §5.2).
func QualifyAttr(attr etree.Attr, scope Scope) (namespace, local string) {
	if attr.Space == "" {
		return "", attr.Key
	}
	return scope[attr.Space], attr.Key
}

// InScopePrefixes returns the set of prefixes bound in scope, excluding
// the default-namespace entry, used by mc:Ignorable validation (spec.md
// §4.7 "every prefix must be bound in the element's in-scope
// namespaces").
func (s Scope) InScopePrefixes() map[string]bool {
	out := make(map[string]bool, len(s))
	for prefix := range s {
		if prefix != "" {
			out[prefix] = true
		}
	}
	return out
}
