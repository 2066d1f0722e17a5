// Package semanticval implements the Semantic Validator (spec.md §4.7):
// relationship-attribute integrity, mc:Ignorable validation, applying
// the Constraint Bridge's compiled semantic predicates, id uniqueness,
// and the cross-part count predicate.
package semanticval

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/verrors"
	"github.com/vortex/ooxml-audit/internal/xmlutil"
)

// relationshipsNS is the well-known r: namespace most OOXML relationship
// reference attributes (r:id, r:embed, ...) live in.
const relationshipsNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// Validator applies semantic constraints over a part's element tree.
type Validator struct {
	bridge     *bridge.Bridge
	reader     *opc.Reader
	trackIDs   bool
	mainPart   opc.PackURI
	countCache map[string]int
}

// New creates a Validator. trackIDs enables the per-part id-uniqueness
// check (spec.md §4.7.4).
func New(b *bridge.Bridge, reader *opc.Reader, trackIDs bool) *Validator {
	return &Validator{bridge: b, reader: reader, trackIDs: trackIDs, countCache: make(map[string]int)}
}

// SetMainPart records the package's main document part URI, used to
// resolve the WorkbookPart/MainDocumentPart/PresentationPart SDK
// aliases in cross-part count predicates (spec.md §4.7).
func (v *Validator) SetMainPart(uri opc.PackURI) {
	v.mainPart = uri
}

// ValidatePart walks one part's parsed tree, applying every applicable
// semantic check in document order.
func (v *Validator) ValidatePart(doc *etree.Document, rels *opc.Collection, ctx *verrors.Context) {
	root := doc.Root()
	if root == nil {
		return
	}
	scope := xmlutil.Resolve(root, xmlutil.Scope{})
	v.walk(root, scope, rels, ctx)
}

func (v *Validator) walk(el *etree.Element, parentScope xmlutil.Scope, rels *opc.Collection, ctx *verrors.Context) {
	scope := xmlutil.Resolve(el, parentScope)

	ctx.PushPath(pathSegment(el))
	defer ctx.PopPath()

	v.checkRelationshipAttrs(el, scope, rels, ctx)
	v.checkIgnorable(el, scope, ctx)

	for _, c := range v.bridge.ConstraintsForContext(ruleContext(el)) {
		v.applyConstraintTop(el, c, rels, ctx)
	}

	// sldId's own "id" duplicates are reported by the presentation
	// profile's checkDuplicateSlideIDs with the reference tool's exact
	// wording ("Duplicate slide ID: N"); skip it here so the same
	// duplicate isn't recorded twice under two different messages.
	if v.trackIDs && el.Tag != "sldId" {
		if id, ok := getAttr(el, "id"); ok && id != "" {
			if !ctx.TrackID(ctx.CurrentPart, id) {
				ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Duplicate id %q", id)
			}
		}
	}

	for _, c := range el.ChildElements() {
		v.walk(c, scope, rels, ctx)
	}
}

// checkRelationshipAttrs implements spec.md §4.7 step 1: every attribute
// in the relationships namespace whose value is non-empty must resolve
// in the current part's relationship collection.
func (v *Validator) checkRelationshipAttrs(el *etree.Element, scope xmlutil.Scope, rels *opc.Collection, ctx *verrors.Context) {
	if rels == nil {
		return
	}
	for _, a := range el.Attr {
		ns, local := xmlutil.QualifyAttr(a, scope)
		if ns != relationshipsNS || a.Value == "" {
			continue
		}
		if _, ok := rels.Get(a.Value); !ok {
			ctx.Errorf(verrors.KindRelationship, verrors.SeverityError, "Attribute %s references unresolved relationship id %q", local, a.Value)
		}
	}
}

// checkIgnorable implements spec.md §4.7 step 2: mc:Ignorable's value
// tokenizes to space-separated prefixes, every one of which must be
// bound in scope.
func (v *Validator) checkIgnorable(el *etree.Element, scope xmlutil.Scope, ctx *verrors.Context) {
	val, ok := getAttrNS(el, "mc", "Ignorable")
	if !ok || val == "" {
		return
	}
	bound := scope.InScopePrefixes()
	for _, prefix := range strings.Fields(val) {
		if !bound[prefix] {
			ctx.Errorf(verrors.KindMarkupCompatibility, verrors.SeverityError, "mc:Ignorable prefix %q is not bound in scope", prefix)
		}
	}
}

func pathSegment(el *etree.Element) string {
	if el.Space == "" {
		return el.Tag
	}
	return fmt.Sprintf("%s:%s", el.Space, el.Tag)
}

// ruleContext renders the element's context key the same way Schematron
// rule JSON names it: "prefix:local".
func ruleContext(el *etree.Element) string {
	return pathSegment(el)
}
