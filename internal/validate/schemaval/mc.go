package schemaval

import "github.com/beevik/etree"

// unfoldChildren replaces each mc:AlternateContent child with the
// children of its mc:Fallback if present, else its mc:Choice, per
// spec.md §4.6 "Markup compatibility unfolding." The unfolding is
// shallow: it only rewrites the immediate children list used for
// particle matching, not the underlying tree.
func unfoldChildren(children []*etree.Element) []*etree.Element {
	hasAlt := false
	for _, c := range children {
		if c.Space == "mc" && c.Tag == "AlternateContent" {
			hasAlt = true
			break
		}
	}
	if !hasAlt {
		return children
	}

	out := make([]*etree.Element, 0, len(children))
	for _, c := range children {
		if c.Space == "mc" && c.Tag == "AlternateContent" {
			out = append(out, alternateContentChildren(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func alternateContentChildren(alt *etree.Element) []*etree.Element {
	var fallback, choice *etree.Element
	for _, c := range alt.ChildElements() {
		switch {
		case c.Space == "mc" && c.Tag == "Fallback":
			fallback = c
		case c.Space == "mc" && c.Tag == "Choice" && choice == nil:
			choice = c
		}
	}
	if fallback != nil {
		return fallback.ChildElements()
	}
	if choice != nil {
		return choice.ChildElements()
	}
	return nil
}
