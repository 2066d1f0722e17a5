package profile

import (
	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

const (
	rtStyles          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	rtNumbering       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	rtFootnotes       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	rtEndnotes        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	rtCustomXmlProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/customXmlProps"
	rtSheet           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	rtSlideMaster     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	rtSlideLayout     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	rtSlide           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

// wireWord implements spec.md §4.9's Word cross-part wiring checks:
// style/numbering id references, abstractNumId links, custom-xml
// companion props, and footnote/endnote references.
func (d *Driver) wireWord(mainURI opc.PackURI, mainRels *opc.Collection, ctx *verrors.Context) {
	documentDoc, ok := d.reader.PartXML(mainURI, ctx)
	if !ok {
		return
	}

	if stylesRel, ok := mainRels.ByType(rtStyles); ok {
		d.checkStyleReferences(documentDoc, stylesRel, mainRels, ctx)
	}
	if numRel, ok := mainRels.ByType(rtNumbering); ok {
		d.checkNumberingReferences(documentDoc, numRel, mainRels, ctx)
	}
	d.checkCustomXmlProps(ctx)
	d.checkFootnoteEndnoteReferences(documentDoc, mainRels, rtFootnotes, "footnoteReference", "footnote", ctx)
	d.checkFootnoteEndnoteReferences(documentDoc, mainRels, rtEndnotes, "endnoteReference", "endnote", ctx)
}

func (d *Driver) checkStyleReferences(documentDoc *etree.Document, stylesRel *opc.Relationship, mainRels *opc.Collection, ctx *verrors.Context) {
	target, ok := mainRels.ResolveTarget(stylesRel.ID)
	if !ok {
		return
	}
	stylesDoc, ok := d.reader.PartXML(opc.Normalize(target), ctx)
	if !ok {
		return
	}
	declared := collectAttrValues(stylesDoc.Root(), "style", "styleId")
	usedTags := collectDescendantsWithAttr(documentDoc.Root(), []string{"pStyle", "rStyle", "tblStyle"}, "val")
	for _, id := range usedTags {
		if !declared[id] {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Referenced style %q is not defined in styles.xml", id)
		}
	}
}

func (d *Driver) checkNumberingReferences(documentDoc *etree.Document, numRel *opc.Relationship, mainRels *opc.Collection, ctx *verrors.Context) {
	target, ok := mainRels.ResolveTarget(numRel.ID)
	if !ok {
		return
	}
	numDoc, ok := d.reader.PartXML(opc.Normalize(target), ctx)
	if !ok {
		return
	}
	declaredNumIds := collectAttrValues(numDoc.Root(), "num", "numId")
	declaredAbstractIds := collectAttrValues(numDoc.Root(), "abstractNum", "abstractNumId")

	for _, el := range findAllByTag(numDoc.Root(), "num") {
		for _, link := range findAllByTag(el, "abstractNumId") {
			val := link.SelectAttrValue("val", "")
			if val != "" && !declaredAbstractIds[val] {
				ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Numbering definition references undefined abstractNumId %q", val)
			}
		}
	}

	used := collectNumIdReferences(documentDoc.Root())
	for _, id := range used {
		if !declaredNumIds[id] {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Referenced numId %q is not defined in numbering.xml", id)
		}
	}
}

// checkCustomXmlProps verifies every word/customXml/itemN.xml part has a
// companion customXmlProps relationship.
func (d *Driver) checkCustomXmlProps(ctx *verrors.Context) {
	for _, p := range d.reader.ListParts() {
		if !isCustomXmlItem(string(p)) {
			continue
		}
		blob, ok := d.reader.PartBytes(p.RelsURI())
		if !ok {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Custom XML item %s has no relationships part for its properties companion", p)
			continue
		}
		rels := opc.ParseRelationships(blob, p)
		if _, ok := rels.ByType(rtCustomXmlProps); !ok {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Custom XML item %s is missing its customXmlProps relationship", p)
		}
	}
}

func (d *Driver) checkFootnoteEndnoteReferences(documentDoc *etree.Document, mainRels *opc.Collection, relType, refTag, defTag string, ctx *verrors.Context) {
	rel, ok := mainRels.ByType(relType)
	if !ok {
		return
	}
	target, ok := mainRels.ResolveTarget(rel.ID)
	if !ok {
		return
	}
	notesDoc, ok := d.reader.PartXML(opc.Normalize(target), ctx)
	if !ok {
		return
	}
	declared := collectAttrValues(notesDoc.Root(), defTag, "id")
	for _, ref := range findAllByTag(documentDoc.Root(), refTag) {
		id := ref.SelectAttrValue("id", "")
		if id != "" && !declared[id] {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "%s references undefined id %q", refTag, id)
		}
	}
}

func isCustomXmlItem(uri string) bool {
	return len(uri) > len("/word/customXml/item") &&
		uri[:len("/word/customXml/item")] == "/word/customXml/item"
}

// collectAttrValues walks the tree for elements with the given local
// tag (or any tag, if empty) collecting the named attribute's value.
func collectAttrValues(root *etree.Element, tag, attr string) map[string]bool {
	out := make(map[string]bool)
	if root == nil {
		return out
	}
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if tag == "" || el.Tag == tag {
			if v := el.SelectAttrValue(attr, ""); v != "" {
				out[v] = true
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findAllByTag(root *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	if root == nil {
		return out
	}
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == tag {
			out = append(out, el)
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func collectDescendantsWithAttr(root *etree.Element, tags []string, attr string) []string {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	var out []string
	if root == nil {
		return out
	}
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if set[el.Tag] {
			if v := el.SelectAttrValue("val", ""); v != "" {
				out = append(out, v)
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func collectNumIdReferences(root *etree.Element) []string {
	var out []string
	for _, numPr := range findAllByTag(root, "numPr") {
		for _, numId := range findAllByTag(numPr, "numId") {
			if v := numId.SelectAttrValue("val", ""); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
