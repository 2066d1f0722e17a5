package binaryval

import (
	"encoding/hex"
	"strings"

	"github.com/beevik/etree"
)

// FontKeyTable maps a relationship id to its 16-byte deobfuscation key,
// built from word/fontTable.xml (spec.md §4.8).
type FontKeyTable map[string][16]byte

var embedElementNames = map[string]bool{
	"embedRegular":    true,
	"embedBold":       true,
	"embedItalic":     true,
	"embedBoldItalic": true,
}

// ParseFontTable walks a fontTable.xml document collecting the
// embedRegular/embedBold/embedItalic/embedBoldItalic elements' r:id +
// fontKey pairs.
func ParseFontTable(doc *etree.Document) FontKeyTable {
	table := make(FontKeyTable)
	root := doc.Root()
	if root == nil {
		return table
	}
	walkFontTable(root, table)
	return table
}

func walkFontTable(el *etree.Element, table FontKeyTable) {
	if embedElementNames[el.Tag] {
		var relID, fontKey string
		for _, a := range el.Attr {
			switch a.Key {
			case "id":
				relID = a.Value
			case "fontKey":
				fontKey = a.Value
			}
		}
		if relID != "" && fontKey != "" {
			if key, ok := GUIDKey(fontKey); ok {
				table[relID] = key
			}
		}
	}
	for _, c := range el.ChildElements() {
		walkFontTable(c, table)
	}
}

// GUIDKey parses a "{XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX}" GUID into the
// 16-byte deobfuscation key: the byte order of the first three segments
// is reversed, the last two segments are appended verbatim (spec.md
// §4.8).
func GUIDKey(guid string) ([16]byte, bool) {
	var key [16]byte
	g := strings.Trim(guid, "{}")
	parts := strings.Split(g, "-")
	if len(parts) != 5 {
		return key, false
	}
	lens := []int{4, 2, 2, 2, 6}
	var raw [16]byte
	offset := 0
	for i, p := range parts {
		n := lens[i]
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != n {
			return key, false
		}
		copy(raw[offset:offset+n], b)
		offset += n
	}

	copy(key[0:4], reversed(raw[0:4]))
	copy(key[4:6], reversed(raw[4:6]))
	copy(key[6:8], reversed(raw[6:8]))
	copy(key[8:16], raw[8:16])
	return key, true
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, x := range b {
		out[len(b)-1-i] = x
	}
	return out
}

// Deobfuscate XORs the first 32 bytes of payload (or fewer, if shorter)
// with the repeating 16-byte key, returning whether the decoded prefix
// begins with a recognized font magic.
func Deobfuscate(payload []byte, key [16]byte) ([]byte, bool) {
	n := len(payload)
	if n > 32 {
		n = 32
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	for i := 0; i < n; i++ {
		out[i] ^= key[i%16]
	}
	return out, isFont(out)
}
