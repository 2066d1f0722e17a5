package semanticval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

var pascalWordRe = regexp.MustCompile(`[A-Z][a-z0-9]*`)

// checkCrossPartCount implements spec.md §4.7's cross-part count
// predicate: "attr < count(document('Part:<path>')//<xpath>) + offset".
// Resolution of <path> tries, in order: an exact part URI, a known SDK
// alias, and a single-candidate heuristic match; absent all three it
// falls back to scanning every part. Results are cached per (part path,
// xpath) since the same predicate is re-applied at every matching
// context element.
func (v *Validator) checkCrossPartCount(el *etree.Element, c *bridge.Constraint, ctx *verrors.Context) {
	val, ok := getAttr(el, c.Attr)
	if !ok {
		return
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return
	}

	cacheKey := c.PartPath + "|" + c.XPath
	count, cached := v.countCache[cacheKey]
	if !cached {
		parts := v.resolvePartsForAlias(c.PartPath)
		if len(parts) == 0 {
			parts = v.reader.ListParts()
		}
		total := 0
		for _, p := range parts {
			doc, ok := v.reader.PartXML(p, ctx)
			if !ok {
				continue
			}
			total += countXPathMatches(doc, c.XPath)
		}
		count = total
		v.countCache[cacheKey] = count
	}

	threshold := count + c.Offset
	if n >= float64(threshold) {
		ctx.Errorf(verrors.KindSemantic, verrors.SeverityError, "Attribute %s value %v must be less than %d", c.Attr, val, threshold)
	}
}

// resolvePartsForAlias resolves a CrossPartCount rule's <Part:path>
// segment to concrete package parts (spec.md §4.7).
func (v *Validator) resolvePartsForAlias(path string) []opc.PackURI {
	if path == "" {
		return nil
	}
	candidate := opc.Normalize(path)
	if v.reader.HasPart(candidate) {
		return []opc.PackURI{candidate}
	}

	switch path {
	case "WorkbookPart", "MainDocumentPart", "PresentationPart":
		if v.mainPart != "" {
			return []opc.PackURI{v.mainPart}
		}
	}

	base := strings.TrimSuffix(path, "Part")
	words := pascalWordRe.FindAllString(base, -1)
	token := base
	if len(words) > 0 {
		token = words[len(words)-1]
	}
	if matches := partsContaining(v.reader.ListParts(), token); len(matches) == 1 {
		return matches
	}
	if token != base {
		if matches := partsContaining(v.reader.ListParts(), base); len(matches) == 1 {
			return matches
		}
	}
	return nil
}

func partsContaining(parts []opc.PackURI, token string) []opc.PackURI {
	if token == "" {
		return nil
	}
	lower := strings.ToLower(token)
	var out []opc.PackURI
	for _, p := range parts {
		if strings.Contains(strings.ToLower(string(p)), lower) {
			out = append(out, p)
		}
	}
	return out
}

// countXPathMatches is a best-effort structural-path matcher, not a
// general XPath engine: each "/"-separated segment (optionally
// "prefix:local") is matched against descendants at any depth under the
// previous segment's matches, mirroring the loose matching the Constraint
// Bridge already applies to regex translation and composite particle
// containment.
func countXPathMatches(doc *etree.Document, xpathExpr string) int {
	root := doc.Root()
	if root == nil {
		return 0
	}
	segments := strings.Split(strings.Trim(xpathExpr, "/"), "/")
	nodes := []*etree.Element{root}
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		prefix, local := splitPrefixedName(seg)
		var next []*etree.Element
		for _, n := range nodes {
			next = append(next, findDescendants(n, prefix, local)...)
		}
		nodes = next
	}
	return len(nodes)
}

func findDescendants(n *etree.Element, prefix, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range n.ChildElements() {
		if c.Space == prefix && c.Tag == local {
			out = append(out, c)
		}
		out = append(out, findDescendants(c, prefix, local)...)
	}
	return out
}
