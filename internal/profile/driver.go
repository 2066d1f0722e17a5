package profile

import (
	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/validate/binaryval"
	"github.com/vortex/ooxml-audit/internal/validate/schemaval"
	"github.com/vortex/ooxml-audit/internal/validate/semanticval"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// Driver runs the 7-phase validation pipeline of spec.md §4.9 over one
// opened package.
type Driver struct {
	reader *opc.Reader

	schemaVal *schemaval.Validator
	semVal    *semanticval.Validator
	binVal    *binaryval.Validator

	kind Kind

	mainURI opc.PackURI
	mainCT  string

	// partRelID maps a part URI to the relationship id under which it
	// was referenced, built once from every part's own rels file so
	// obfuscated-font lookups in fontTable.xml (keyed by relationship
	// id) can find their target part's payload.
	partRelID map[opc.PackURI]string
}

// New builds a Driver over an opened package, wiring the Constraint
// Bridge into each phase validator.
func New(reader *opc.Reader, br *bridge.Bridge) *Driver {
	return &Driver{
		reader:    reader,
		schemaVal: schemaval.New(br, false),
		semVal:    semanticval.New(br, reader, true),
		binVal:    binaryval.New(nil),
	}
}

// Kind returns the detected document kind, valid after Run has executed
// at least through phase 2.
func (d *Driver) Kind() Kind {
	return d.kind
}

// Run executes the 7-phase pipeline (spec.md §4.9), short-circuiting
// once ctx's error ceiling is reached.
func (d *Driver) Run(ctx *verrors.Context) {
	// Phase 1: package structure.
	if !d.reader.HasPart(opc.PackageURI.RelsURI()) {
		ctx.Errorf(verrors.KindPackage, verrors.SeverityError, "Package is missing its root relationships part %s", opc.PackageURI.RelsURI())
	}
	if ctx.AtCeiling() {
		return
	}

	rootBlob, _ := d.reader.PartBytes(opc.PackageURI.RelsURI())
	rootRels := opc.ParseRelationships(rootBlob, opc.PackageURI)

	mainRel, ok := rootRels.ByType(opc.RTOfficeDocument)
	if !ok {
		ctx.Errorf(verrors.KindPackage, verrors.SeverityError, "Package has no officeDocument relationship")
		return
	}
	target, _ := rootRels.ResolveTarget(mainRel.ID)
	d.mainURI = opc.Normalize(target)
	d.semVal.SetMainPart(d.mainURI)

	ctBlob, _ := d.reader.PartBytes(opc.ContentTypesURI)
	ct, err := opc.ParseContentTypes(ctBlob)
	if err == nil {
		if mt, ok := ct.ContentType(d.mainURI); ok {
			d.mainCT = mt
		}
	}
	d.kind = DetectKind(d.mainCT, d.mainURI)

	mainBlob, _ := d.reader.PartBytes(d.mainURI.RelsURI())
	mainRels := opc.ParseRelationships(mainBlob, d.mainURI)

	// Phase 4 needs a font-key table before it can deobfuscate embedded
	// fonts; fontTable.xml, if present, is discovered directly by its
	// well-known Word part path rather than by relationship, since it is
	// never referenced outside word/document.xml's own rels.
	d.loadFontTable()
	d.buildRelIDIndex()

	if ctx.AtCeiling() {
		return
	}

	// Phase 2: profile-specific structure walk's required-relationship
	// set (spec.md §4.9(b)), enforced only in strict mode.
	d.checkRequiredRelationships(mainRels, ctx)
	if ctx.AtCeiling() {
		return
	}

	// Phase 3: relationship integrity over every part with a .rels file.
	d.validateRelationshipIntegrity(ctx)
	if ctx.AtCeiling() {
		return
	}

	// Phase 4: binary payloads.
	d.validateBinaryPayloads(ct, ctx)
	if ctx.AtCeiling() {
		return
	}

	// Phase 5 & 6: schema and semantic validation over every XML part.
	d.validateXMLParts(ctx)
	if ctx.AtCeiling() {
		return
	}

	// Phase 7: profile-specific deep walk.
	d.runDeepWalk(mainRels, ctx)
}

func (d *Driver) loadFontTable() {
	for _, p := range d.reader.ListParts() {
		if string(p) == "/word/fontTable.xml" {
			doc, ok := d.reader.PartXML(p, nil)
			if ok {
				d.binVal = binaryval.New(binaryval.ParseFontTable(doc))
			}
			return
		}
	}
}

// buildRelIDIndex records, for every part, the relationship id of the
// first relationship (from any part's rels file) that resolves to it.
func (d *Driver) buildRelIDIndex() {
	d.partRelID = make(map[opc.PackURI]string)
	index := func(source opc.PackURI, blob []byte) {
		rels := opc.ParseRelationships(blob, source)
		for _, rel := range rels.All() {
			if rel.IsExternal() {
				continue
			}
			target, ok := rels.ResolveTarget(rel.ID)
			if !ok {
				continue
			}
			uri := opc.Normalize(target)
			if _, seen := d.partRelID[uri]; !seen {
				d.partRelID[uri] = rel.ID
			}
		}
	}
	if blob, ok := d.reader.PartBytes(opc.PackageURI.RelsURI()); ok {
		index(opc.PackageURI, blob)
	}
	for _, p := range d.reader.ListParts() {
		if blob, ok := d.reader.PartBytes(p.RelsURI()); ok {
			index(p, blob)
		}
	}
}

func (d *Driver) validateRelationshipIntegrity(ctx *verrors.Context) {
	rootBlob, _ := d.reader.PartBytes(opc.PackageURI.RelsURI())
	d.semVal.ValidateRelationshipIntegrity(opc.PackageURI, rootBlob, ctx)

	for _, p := range d.reader.ListParts() {
		blob, ok := d.reader.PartBytes(p.RelsURI())
		if !ok {
			continue
		}
		d.semVal.ValidateRelationshipIntegrity(p, blob, ctx)
		if ctx.AtCeiling() {
			return
		}
	}
}

func (d *Driver) validateBinaryPayloads(ct *opc.ContentTypes, ctx *verrors.Context) {
	for _, p := range d.reader.ListParts() {
		if p.Ext() == "xml" || p.Ext() == "rels" {
			continue
		}
		var contentType string
		if ct != nil {
			contentType, _ = ct.ContentType(p)
		}
		data, ok := d.reader.PartBytes(p)
		if !ok {
			continue
		}
		ctx.CurrentPart = string(p)
		d.binVal.ValidatePart(string(p), contentType, p.Ext(), d.partRelID[p], data, ctx)
		if ctx.AtCeiling() {
			return
		}
	}
}

func (d *Driver) validateXMLParts(ctx *verrors.Context) {
	for _, p := range d.reader.ListParts() {
		if p.Ext() != "xml" {
			continue
		}
		doc, ok := d.reader.PartXML(p, ctx)
		if !ok {
			continue
		}
		ctx.CurrentPart = string(p)

		relsBlob, _ := d.reader.PartBytes(p.RelsURI())
		rels := opc.ParseRelationships(relsBlob, p)

		d.schemaVal.ValidatePart(doc, ctx)
		if ctx.AtCeiling() {
			return
		}
		d.semVal.ValidatePart(doc, rels, ctx)
		if ctx.AtCeiling() {
			return
		}
	}
}

func (d *Driver) runDeepWalk(mainRels *opc.Collection, ctx *verrors.Context) {
	if d.mainURI == "" {
		return
	}

	switch d.kind {
	case KindWord:
		d.wireWord(d.mainURI, mainRels, ctx)
	case KindSpreadsheet:
		d.wireSpreadsheet(d.mainURI, mainRels, ctx)
	case KindPresentation:
		d.wirePresentation(d.mainURI, mainRels, ctx)
	}
}
