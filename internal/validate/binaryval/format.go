// Package binaryval implements the Binary Payload Validator (spec.md
// §4.8): magic-byte sniffing for images/fonts/OLE containers, obfuscated
// font deobfuscation, and the font-key lookup table built from
// word/fontTable.xml.
package binaryval

import "strings"

// Format identifies a recognized binary payload kind.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatEMF
	FormatWMF
	FormatOLE
	FormatFont
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "JPEG"
	case FormatPNG:
		return "PNG"
	case FormatGIF:
		return "GIF"
	case FormatBMP:
		return "BMP"
	case FormatTIFF:
		return "TIFF"
	case FormatEMF:
		return "EMF"
	case FormatWMF:
		return "WMF"
	case FormatOLE:
		return "OLE"
	case FormatFont:
		return "Font"
	default:
		return "Unknown"
	}
}

// descriptor binds a format to the content types and extensions that
// identify it, and the magic-byte test that confirms it.
type descriptor struct {
	format       Format
	contentTypes []string
	extensions   []string
	sniff        func([]byte) bool
}

var descriptors = []descriptor{
	{FormatJPEG, []string{"image/jpeg", "image/pjpeg"}, []string{"jpg", "jpeg"}, hasPrefix(0xFF, 0xD8, 0xFF)},
	{FormatPNG, []string{"image/png"}, []string{"png"}, hasPrefix(0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A)},
	{FormatGIF, []string{"image/gif"}, []string{"gif"}, isGIF},
	{FormatBMP, []string{"image/bmp", "image/x-bmp"}, []string{"bmp"}, hasPrefixStr("BM")},
	{FormatTIFF, []string{"image/tiff"}, []string{"tif", "tiff"}, isTIFF},
	{FormatEMF, []string{"image/emf", "image/x-emf"}, []string{"emf"}, isEMF},
	{FormatWMF, []string{"image/wmf", "image/x-wmf"}, []string{"wmf"}, isWMF},
	{FormatOLE, []string{"application/vnd.openxmlformats-officedocument.oleObject", "application/x-msole", "application/vnd.ms-office.activeX"}, []string{"bin", "ole"}, hasPrefix(0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1)},
	{FormatFont, fontContentTypes, []string{"ttf", "otf", "ttc", "otc", "fntdata"}, isFont},
}

var fontContentTypes = []string{
	"application/x-font-ttf",
	"application/x-font-truetype",
	"application/x-font-opentype",
	"application/vnd.ms-opentype",
	"application/font-sfnt",
}

func hasPrefix(bytes ...byte) func([]byte) bool {
	return func(b []byte) bool {
		if len(b) < len(bytes) {
			return false
		}
		for i, x := range bytes {
			if b[i] != x {
				return false
			}
		}
		return true
	}
}

func hasPrefixStr(s string) func([]byte) bool {
	return func(b []byte) bool {
		return len(b) >= len(s) && string(b[:len(s)]) == s
	}
}

func isGIF(b []byte) bool {
	return len(b) >= 6 && (string(b[:6]) == "GIF87a" || string(b[:6]) == "GIF89a")
}

func isTIFF(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	return (b[0] == 'I' && b[1] == 'I' && b[2] == 0x2A && b[3] == 0x00) ||
		(b[0] == 'M' && b[1] == 'M' && b[2] == 0x00 && b[3] == 0x2A)
}

// isEMF checks the fixed EMF header: a record type of 1 at offset 0 and
// the literal " EMF" signature at offset 40 (spec.md §4.8).
func isEMF(b []byte) bool {
	if len(b) < 44 {
		return false
	}
	if b[0] != 0x01 || b[1] != 0x00 || b[2] != 0x00 || b[3] != 0x00 {
		return false
	}
	return string(b[40:44]) == " EMF"
}

func isWMF(b []byte) bool {
	if len(b) >= 4 && b[0] == 0xD7 && b[1] == 0xCD && b[2] == 0xC6 && b[3] == 0x9A {
		return true
	}
	if len(b) < 6 {
		return false
	}
	typeOK := (b[0] == 0x01 && b[1] == 0x00) || (b[0] == 0x02 && b[1] == 0x00)
	return typeOK && b[4] == 0x09 && b[5] == 0x00
}

func isFont(b []byte) bool {
	if len(b) >= 4 {
		switch string(b[:4]) {
		case "OTTO", "ttcf", "true", "typ1":
			return true
		}
		if b[0] == 0x00 && b[1] == 0x01 && b[2] == 0x00 && b[3] == 0x00 {
			return true
		}
	}
	return false
}

// Detect resolves a descriptor by content type first, then by file
// extension, matching spec.md §4.8's dispatch order.
func Detect(contentType, extension string) (Format, func([]byte) bool, bool) {
	extension = strings.TrimPrefix(strings.ToLower(extension), ".")
	for _, d := range descriptors {
		for _, ct := range d.contentTypes {
			if strings.EqualFold(ct, contentType) {
				return d.format, d.sniff, true
			}
		}
	}
	for _, d := range descriptors {
		for _, ext := range d.extensions {
			if ext == extension {
				return d.format, d.sniff, true
			}
		}
	}
	return FormatUnknown, nil, false
}
