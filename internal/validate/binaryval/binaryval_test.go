package binaryval

import (
	"encoding/binary"
	"testing"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/verrors"
)

func TestDetect_ByContentTypeThenExtension(t *testing.T) {
	t.Parallel()
	if f, _, ok := Detect("image/png", "png"); !ok || f != FormatPNG {
		t.Errorf("expected PNG by content type, got %v/%v", f, ok)
	}
	if f, _, ok := Detect("", "jpg"); !ok || f != FormatJPEG {
		t.Errorf("expected JPEG by extension fallback, got %v/%v", f, ok)
	}
	if _, _, ok := Detect("application/octet-stream", "dat"); ok {
		t.Error("expected no match for an unrecognized type/extension pair")
	}
}

func TestValidator_PNGMagicMismatch(t *testing.T) {
	t.Parallel()
	v := New(nil)
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	v.ValidatePart("/media/image1.png", "image/png", "png", "", []byte("not a png"), ctx)
	if ctx.IsValid() {
		t.Fatal("expected a Binary error for mismatched PNG magic")
	}
}

func TestValidator_ValidJPEG(t *testing.T) {
	t.Parallel()
	v := New(nil)
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)
	v.ValidatePart("/media/image1.jpg", "image/jpeg", "jpg", "", data, ctx)
	if !ctx.IsValid() {
		t.Errorf("expected no errors, got %v", ctx.Errors())
	}
}

func TestValidator_FntdataHeader(t *testing.T) {
	t.Parallel()
	v := New(nil)

	font := append([]byte("true"), make([]byte, 12)...)
	header := make([]byte, 8)
	total := uint32(8 + len(font))
	binary.LittleEndian.PutUint32(header[0:4], total)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(font)))
	data := append(header, font...)

	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	v.ValidatePart("/word/fonts/font1.fntdata", "", "fntdata", "", data, ctx)
	if !ctx.IsValid() {
		t.Errorf("expected a valid .fntdata payload, got %v", ctx.Errors())
	}
}

func TestValidator_FntdataInconsistentHeader(t *testing.T) {
	t.Parallel()
	v := New(nil)
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], 4) // total < font-len
	binary.LittleEndian.PutUint32(header[4:8], 100)
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	v.ValidatePart("/word/fonts/font1.fntdata", "", "fntdata", "", header, ctx)
	if ctx.IsValid() {
		t.Fatal("expected an error for an inconsistent fntdata header")
	}
}

func TestGUIDKey_ReversesFirstThreeSegments(t *testing.T) {
	t.Parallel()
	key, ok := GUIDKey("{01020304-0506-0708-090A-0B0C0D0E0F10}")
	if !ok {
		t.Fatal("expected GUIDKey to parse")
	}
	want := [16]byte{
		0x04, 0x03, 0x02, 0x01,
		0x06, 0x05,
		0x08, 0x07,
		0x09, 0x0A,
		0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	}
	if key != want {
		t.Errorf("GUIDKey = %x, want %x", key, want)
	}
}

func TestDeobfuscate_RecoversFontMagic(t *testing.T) {
	t.Parallel()
	key, _ := GUIDKey("{01020304-0506-0708-090A-0B0C0D0E0F10}")
	plain := append([]byte("OTTO"), make([]byte, 28)...)
	obfuscated := make([]byte, len(plain))
	copy(obfuscated, plain)
	for i := 0; i < 32; i++ {
		obfuscated[i] ^= key[i%16]
	}
	out, ok := Deobfuscate(obfuscated, key)
	if !ok {
		t.Fatal("expected deobfuscation to recover a font magic")
	}
	if string(out[:4]) != "OTTO" {
		t.Errorf("decoded prefix = %q, want OTTO", out[:4])
	}
}

func TestValidator_ObfuscatedFontMissingKey(t *testing.T) {
	t.Parallel()
	v := New(FontKeyTable{})
	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	v.ValidatePart("/word/fonts/font1.odttf", "", "odttf", "rId9", make([]byte, 32), ctx)

	found := false
	for _, e := range ctx.Errors() {
		if e.Severity == verrors.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Warning for a missing font key, got %v", ctx.Errors())
	}
}

func TestParseFontTable(t *testing.T) {
	t.Parallel()
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	xml := `<w:fonts xmlns:w="urn:test:w" xmlns:r="urn:test:r">
		<w:font w:name="Calibri">
			<w:embedRegular r:id="rId5" w:fontKey="{01020304-0506-0708-090A-0B0C0D0E0F10}"/>
		</w:font>
	</w:fonts>`
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	table := ParseFontTable(doc)
	if _, ok := table["rId5"]; !ok {
		t.Errorf("expected font key for rId5, got %v", table)
	}
}

func TestValidator_EMFByteCountMismatch(t *testing.T) {
	t.Parallel()
	v := New(nil)
	data := make([]byte, 60)
	data[0], data[1], data[2], data[3] = 0x01, 0x00, 0x00, 0x00
	copy(data[40:44], " EMF")
	binary.LittleEndian.PutUint32(data[48:52], 999)

	ctx := verrors.NewContext(true, 0, verrors.Office2019)
	v.ValidatePart("/word/media/image1.emf", "image/emf", "emf", "", data, ctx)

	found := false
	for _, e := range ctx.Errors() {
		if e.Severity == verrors.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Warning for the EMF byte-count mismatch, got %v", ctx.Errors())
	}
}
