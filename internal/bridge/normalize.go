// Package bridge implements the Constraint Bridge (spec.md §4.5):
// converting Schema Registry and Schematron Registry entries into the
// runtime form the validators walk — normalized particle trees and
// compiled semantic constraints — with memoization so the conversion
// runs once per distinct registry entry.
package bridge

import "github.com/vortex/ooxml-audit/internal/schema"

// NormalizeParticle applies the three particle normalizations of
// spec.md §4.5 bottom-up and returns the (possibly replaced) root. The
// input tree is mutated in place where a node survives; replaced nodes
// are discarded.
func NormalizeParticle(p *schema.Particle) *schema.Particle {
	if p == nil {
		return nil
	}
	for i, c := range p.Children {
		p.Children[i] = NormalizeParticle(c)
	}

	switch p.Kind {
	case schema.PSequence:
		return normalizeSequence(p)
	case schema.PChoice:
		return normalizeChoice(p)
	case schema.PAll:
		return normalizeSingleton(p)
	case schema.PGroup:
		return normalizeGroup(p)
	default:
		return p
	}
}

func normalizeSequence(p *schema.Particle) *schema.Particle {
	if len(p.Children) == 1 && p.Children[0].Min == 1 && p.Children[0].Max == 1 {
		child := p.Children[0]
		child.Min, child.Max = p.Min, p.Max
		return child
	}

	var out []*schema.Particle
	for _, c := range p.Children {
		if c.Kind == schema.PSequence && c.Max == 1 {
			if c.Min == 0 && hasRequiredChild(c) {
				out = append(out, c)
				continue
			}
			for _, gc := range c.Children {
				if c.Min == 0 {
					cp := *gc
					cp.Min = 0
					out = append(out, &cp)
				} else {
					out = append(out, gc)
				}
			}
			continue
		}
		out = append(out, c)
	}
	p.Children = out
	return p
}

func normalizeChoice(p *schema.Particle) *schema.Particle {
	if len(p.Children) == 1 {
		child := p.Children[0]
		child.Min, child.Max = p.Min, p.Max
		return child
	}

	var out []*schema.Particle
	for _, c := range p.Children {
		if c.Kind == schema.PChoice && c.Min == 1 && c.Max == 1 {
			out = append(out, c.Children...)
			continue
		}
		out = append(out, c)
	}
	p.Children = out
	return p
}

func normalizeSingleton(p *schema.Particle) *schema.Particle {
	if len(p.Children) == 1 {
		child := p.Children[0]
		child.Min, child.Max = p.Min, p.Max
		return child
	}
	return p
}

func normalizeGroup(p *schema.Particle) *schema.Particle {
	if len(p.Children) == 1 {
		child := p.Children[0]
		child.Min, child.Max = p.Min, p.Max
		return child
	}
	return &schema.Particle{Kind: schema.PSequence, Min: p.Min, Max: p.Max, Children: p.Children}
}

// hasRequiredChild reports whether any immediate child particle has a
// nonzero minimum occurrence (spec.md §4.5 "contains a required
// sub-particle").
func hasRequiredChild(p *schema.Particle) bool {
	for _, c := range p.Children {
		if c.Min > 0 {
			return true
		}
	}
	return false
}
