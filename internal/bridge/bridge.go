package bridge

import (
	"sync"

	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/schematron"
)

// Bridge wires a schema.Registry and a schematron.Registry into the
// runtime forms validators consume. pkg/audit builds one per validation
// call. The compiled constraints are not modified after New returns; the
// normalized-particle memo is filled lazily under a mutex, so a Bridge
// is safe to share across concurrent validations.
type Bridge struct {
	schemaReg     *schema.Registry
	schematronReg *schematron.Registry

	constraintsByContext map[string][]*Constraint

	particleMu    sync.Mutex
	normalizedOf  map[*schema.ElementConstraint]*schema.Particle
}

// New builds a Bridge, eagerly compiling every Schematron rule into its
// runtime Constraint form, grouped by element context. Rules whose
// pattern fails to translate are silently dropped (spec.md §4.5).
func New(schemaReg *schema.Registry, schematronReg *schematron.Registry) *Bridge {
	b := &Bridge{
		schemaReg:            schemaReg,
		schematronReg:        schematronReg,
		constraintsByContext: make(map[string][]*Constraint),
		normalizedOf:         make(map[*schema.ElementConstraint]*schema.Particle),
	}
	if schematronReg != nil {
		for _, rule := range schematronReg.All() {
			c, ok := BuildConstraint(rule)
			if !ok {
				continue
			}
			b.constraintsByContext[rule.Context] = append(b.constraintsByContext[rule.Context], c)
		}
	}
	return b
}

// ConstraintsForContext returns the compiled semantic constraints
// registered against an element's qualified-name context string.
func (b *Bridge) ConstraintsForContext(context string) []*Constraint {
	return b.constraintsByContext[context]
}

// SchemaRegistry exposes the underlying schema registry for constraint
// lookup (spec.md §4.6 "Constraint lookup via Schema Registry
// best-candidate selection").
func (b *Bridge) SchemaRegistry() *schema.Registry {
	return b.schemaReg
}

// NormalizedContentModel returns an ElementConstraint's content model
// after particle normalization (spec.md §4.5), memoizing the result per
// constraint pointer so the flattening runs once no matter how many
// times the element tag recurs across a package.
func (b *Bridge) NormalizedContentModel(ec *schema.ElementConstraint) *schema.Particle {
	if ec == nil || ec.ContentModel == nil {
		return nil
	}
	b.particleMu.Lock()
	defer b.particleMu.Unlock()
	if p, ok := b.normalizedOf[ec]; ok {
		return p
	}
	p := NormalizeParticle(ec.ContentModel)
	b.normalizedOf[ec] = p
	return p
}
