package binaryval

import (
	"encoding/binary"
	"strings"

	"github.com/vortex/ooxml-audit/internal/verrors"
)

// Validator checks binary (non-XML) part payloads against their
// content-type/extension-derived format descriptor.
type Validator struct {
	fontKeys FontKeyTable
}

// New creates a Validator. fontKeys may be nil if no word/fontTable.xml
// was present in the package.
func New(fontKeys FontKeyTable) *Validator {
	return &Validator{fontKeys: fontKeys}
}

// ValidatePart checks one binary part's payload. relID is the
// relationship id under which this part was referenced (used to look up
// an obfuscated font's deobfuscation key); it may be empty when unknown.
func (v *Validator) ValidatePart(partURI, contentType, extension, relID string, data []byte, ctx *verrors.Context) {
	if strings.EqualFold(extension, "fntdata") {
		v.validateFntdata(data, ctx)
		return
	}

	if isObfuscatedFont(contentType, extension) {
		v.validateObfuscatedFont(relID, data, ctx)
		return
	}

	format, sniff, ok := Detect(contentType, extension)
	if !ok {
		return
	}
	if sniff == nil || !sniff(data) {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityError, "Part does not match the %s magic-byte signature declared by its content type", format)
		return
	}

	switch format {
	case FormatEMF:
		v.checkEMFStructure(data, ctx)
	case FormatOLE:
		v.checkOLEStructure(data, ctx)
	}
}

func isObfuscatedFont(contentType, extension string) bool {
	return strings.EqualFold(extension, "odttf") || strings.Contains(strings.ToLower(contentType), "obfuscatedfont")
}

// validateFntdata implements spec.md §4.8's .fntdata header: an 8-byte
// header of {total u32-le, font-len u32-le}, with the font bytes
// starting at offset total-font-len.
func (v *Validator) validateFntdata(data []byte, ctx *verrors.Context) {
	if len(data) < 8 {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityError, ".fntdata payload is shorter than its 8-byte header")
		return
	}
	total := binary.LittleEndian.Uint32(data[0:4])
	fontLen := binary.LittleEndian.Uint32(data[4:8])
	if fontLen > total || uint64(total) > uint64(len(data)) {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityError, ".fntdata header declares an inconsistent total/font-len pair")
		return
	}
	start := total - fontLen
	if uint64(start) > uint64(len(data)) {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityError, ".fntdata font offset exceeds payload length")
		return
	}
	if !isFont(data[start:]) {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityError, ".fntdata embedded font does not begin with a recognized font magic")
	}
}

// validateObfuscatedFont implements spec.md §4.8's obfuscated-font
// handling: a missing deobfuscation key is a Warning, a decode failure
// (XOR result does not begin with a font magic) is an Error.
func (v *Validator) validateObfuscatedFont(relID string, data []byte, ctx *verrors.Context) {
	key, ok := v.fontKeys[relID]
	if !ok {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityWarning, "Obfuscated font payload missing fontKey")
		return
	}
	if _, ok := Deobfuscate(data, key); !ok {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityError, "Obfuscated font failed to decode to a recognized font magic")
	}
}

// checkEMFStructure is the expanded (original_source-derived) check: the
// EMF header's nBytes field (offset 48, u32-le) should equal the actual
// payload length. Reported as a Warning, since it is defensive beyond
// ECMA-376 itself (SPEC_FULL.md §4.8).
func (v *Validator) checkEMFStructure(data []byte, ctx *verrors.Context) {
	if len(data) < 52 {
		return
	}
	nBytes := binary.LittleEndian.Uint32(data[48:52])
	if uint64(nBytes) != uint64(len(data)) {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityWarning, "EMF header declares %d bytes but the payload is %d bytes", nBytes, len(data))
	}
}

// checkOLEStructure is the expanded (original_source-derived) check: the
// compound-file header's sector-shift field (offset 30, u16-le) should be
// 9 (512-byte sectors) or 12 (4096-byte sectors); anything else is
// implausible for a real OLE container.
func (v *Validator) checkOLEStructure(data []byte, ctx *verrors.Context) {
	if len(data) < 32 {
		return
	}
	shift := binary.LittleEndian.Uint16(data[30:32])
	if shift != 9 && shift != 12 {
		ctx.Errorf(verrors.KindBinary, verrors.SeverityWarning, "OLE header declares an implausible sector shift %d", shift)
	}
}
