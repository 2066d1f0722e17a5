// Package schemaval implements the Schema Validator (spec.md §4.6):
// walking each XML part's element tree, resolving the applicable
// ElementConstraint via the Constraint Bridge, and checking attributes
// and content models against it.
package schemaval

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/verrors"
	"github.com/vortex/ooxml-audit/internal/xmlutil"
)

// Validator walks XML parts against a Bridge's schema registry.
type Validator struct {
	bridge          *bridge.Bridge
	validateUnknown bool
}

// New creates a Validator. validateUnknown controls whether elements
// with no registered constraint at all are reported (spec.md §4.6
// "off by default").
func New(b *bridge.Bridge, validateUnknown bool) *Validator {
	return &Validator{bridge: b, validateUnknown: validateUnknown}
}

// ValidatePart walks one part's parsed XML tree.
func (v *Validator) ValidatePart(doc *etree.Document, ctx *verrors.Context) {
	root := doc.Root()
	if root == nil {
		return
	}
	scope := xmlutil.Resolve(root, xmlutil.Scope{})
	v.walk(root, scope, ctx)
}

func (v *Validator) walk(el *etree.Element, parentScope xmlutil.Scope, ctx *verrors.Context) {
	scope := xmlutil.Resolve(el, parentScope)
	ns, local := xmlutil.Qualify(el, scope)

	ctx.PushPath(pathSegment(el, local))
	defer ctx.PopPath()

	rawChildren := unfoldChildren(el.ChildElements())
	instChildren := make([]instChild, len(rawChildren))
	registryChildren := make([]schema.InstanceChild, len(rawChildren))
	for i, c := range rawChildren {
		childScope := xmlutil.Resolve(c, scope)
		cns, clocal := xmlutil.Qualify(c, childScope)
		instChildren[i] = instChild{ns: cns, local: clocal}
		registryChildren[i] = schema.InstanceChild{Namespace: cns, LocalName: clocal}
	}

	reg := v.bridge.SchemaRegistry()
	ec, ok := reg.BestCandidate(ns, local, presentAttrSet(el), registryChildren)
	if !ok {
		if v.validateUnknown {
			ctx.Errorf(verrors.KindSchema, verrors.SeverityError, "No schema constraint registered for element %s", local)
		}
		for _, c := range rawChildren {
			v.walk(c, scope, ctx)
		}
		return
	}

	validateAttributes(ec, el, scope, ctx)
	validateContentModel(v.bridge.NormalizedContentModel(ec), instChildren, ctx)

	for _, c := range rawChildren {
		v.walk(c, scope, ctx)
	}
}

func pathSegment(el *etree.Element, local string) string {
	if el.Space == "" {
		return local
	}
	return fmt.Sprintf("%s:%s", el.Space, local)
}
