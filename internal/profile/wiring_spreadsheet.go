package profile

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// wireSpreadsheet implements spec.md §4.9's spreadsheet cross-part
// wiring checks: sheet r:id references resolve to existing sheet parts,
// and calcChain.xml (when present) references only sheet ids present in
// workbook.xml — a check SPEC_FULL.md §4.9 adds back from
// original_source.
func (d *Driver) wireSpreadsheet(mainURI opc.PackURI, mainRels *opc.Collection, ctx *verrors.Context) {
	workbookDoc, ok := d.reader.PartXML(mainURI, ctx)
	if !ok {
		return
	}

	sheetIDs := make(map[string]bool)
	for _, sheet := range findAllByTag(workbookDoc.Root(), "sheet") {
		rid := sheet.SelectAttrValue("id", "")
		sheetIDs[sheet.SelectAttrValue("sheetId", "")] = true
		if rid == "" {
			continue
		}
		target, ok := mainRels.ResolveTarget(rid)
		if !ok || !d.reader.HasPart(opc.Normalize(target)) {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Sheet %q relationship %q does not resolve to a worksheet part", sheet.SelectAttrValue("name", ""), rid)
		}
	}

	d.checkCalcChain(sheetIDs, ctx)
	d.checkSharedStrings(mainRels, ctx)
}

func (d *Driver) checkCalcChain(sheetIDs map[string]bool, ctx *verrors.Context) {
	calcChainURI := opc.Normalize("/xl/calcChain.xml")
	if !d.reader.HasPart(calcChainURI) {
		return
	}
	doc, ok := d.reader.PartXML(calcChainURI, ctx)
	if !ok {
		return
	}
	for _, c := range findAllByTag(doc.Root(), "c") {
		sheetID := c.SelectAttrValue("i", "")
		if sheetID != "" && !sheetIDs[sheetID] {
			ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "calcChain.xml references sheet id %q not present in workbook.xml", sheetID)
		}
	}
}

// checkSharedStrings validates that every inline shared-string index
// used by a worksheet cell (t="s") is non-negative and within bounds of
// sharedStrings.xml's declared string table (spec.md §4.9).
func (d *Driver) checkSharedStrings(mainRels *opc.Collection, ctx *verrors.Context) {
	sstRel, ok := mainRels.ByType("http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings")
	if !ok {
		return
	}
	target, ok := mainRels.ResolveTarget(sstRel.ID)
	if !ok {
		return
	}
	sstDoc, ok := d.reader.PartXML(opc.Normalize(target), ctx)
	if !ok {
		return
	}
	count := len(findAllByTag(sstDoc.Root(), "si"))

	for _, p := range d.reader.ListParts() {
		if !isSheetPart(string(p)) {
			continue
		}
		doc, ok := d.reader.PartXML(p, ctx)
		if !ok {
			continue
		}
		d.checkSheetStringIndices(doc.Root(), count, ctx)
	}
}

func (d *Driver) checkSheetStringIndices(root *etree.Element, count int, ctx *verrors.Context) {
	for _, cell := range findAllByTag(root, "c") {
		if cell.SelectAttrValue("t", "") != "s" {
			continue
		}
		for _, v := range findAllByTag(cell, "v") {
			idx, err := strconv.Atoi(v.Text())
			if err != nil {
				continue
			}
			if idx < 0 || idx >= count {
				ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Shared string index %d out of range (count %d)", idx, count)
			}
		}
	}
}

func isSheetPart(uri string) bool {
	return len(uri) > len("/xl/worksheets/") && uri[:len("/xl/worksheets/")] == "/xl/worksheets/"
}
