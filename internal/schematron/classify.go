package schematron

import (
	"regexp"
	"strconv"
	"strings"
)

// numPattern matches an XPath numeric literal: optional sign, digits,
// optional fraction, optional scientific-notation exponent, optional
// trailing "f" suffix (spec.md §4.4 rule 1).
const numPattern = `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?f?`

var (
	attrRefRe = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)$`)

	rangeGERe = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)\s*>=\s*(` + numPattern + `)$`)
	rangeLERe = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)\s*<=\s*(` + numPattern + `)$`)

	lengthGERe = regexp.MustCompile(`^string-length\(@([A-Za-z_][\w:.\-]*)\)\s*>=\s*(\d+)$`)
	lengthLERe = regexp.MustCompile(`^string-length\(@([A-Za-z_][\w:.\-]*)\)\s*<=\s*(\d+)$`)

	matchesRe = regexp.MustCompile(`^matches\(@([A-Za-z_][\w:.\-]*),\s*'([^']*)'\)$`)

	uniqueRe = regexp.MustCompile(`^count\(distinct-values\((.*?)/@([A-Za-z_][\w:.\-]*)\)\)\s*=\s*count\((.*)\)$`)

	relTypeRe = regexp.MustCompile(`^document\(['"]?rels['"]?\)//r:Relationship\[@Id\s*=\s*current\(\)/@([A-Za-z_][\w:.\-]*)\s+and\s+@Type\s*=\s*'([^']*)'\]$`)

	indexOfRe = regexp.MustCompile(`(?i)^Index-of\(document\([^)]*\)[^,]*,\s*@([A-Za-z_][\w:.\-]*)\)`)

	notEqualRe = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)\s*!=\s*'?([^']*?)'?$`)
	equalsRe   = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)\s*=\s*'?([^']*?)'?$`)

	comparisonRe = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)\s*(<=|>=|<|>)\s*@([A-Za-z_][\w:.\-]*)$`)

	crossPartRe = regexp.MustCompile(`^@([A-Za-z_][\w:.\-]*)\s*<\s*count\(document\('Part:([^']*)'\)//(.*?)\)\s*\+\s*(\d+)$`)
)

// Classify implements spec.md §4.4's fixed-order classifier: the first
// matching pattern wins.
func Classify(test string) (Kind, Params) {
	t := strings.TrimSpace(test)

	if k, p, ok := classifyRange(t); ok {
		return k, p
	}
	if k, p, ok := classifyLength(t); ok {
		return k, p
	}
	if m := matchesRe.FindStringSubmatch(t); m != nil {
		return KindAttributeValuePattern, Params{Attr: m[1], Pattern: m[2]}
	}
	if m := uniqueRe.FindStringSubmatch(t); m != nil {
		return KindUniqueAttribute, Params{Attr: m[2]}
	}
	if m := relTypeRe.FindStringSubmatch(t); m != nil {
		return KindRelationshipType, Params{Attr: m[1], ExpectedValue: m[2]}
	}
	if m := indexOfRe.FindStringSubmatch(t); m != nil {
		return KindElementReference, Params{Attr: m[1]}
	}
	if k, p, ok := classifyOr(t); ok {
		return k, p
	}
	if k, p, ok := classifyAndNotEqual(t); ok {
		return k, p
	}
	if m := attrRefRe.FindStringSubmatch(t); m != nil {
		return KindAttributesPresent, Params{Attr: m[1], RequiredAttrs: []string{m[1]}}
	}
	if k, p, ok := classifyAttributesPresentAll(t); ok {
		return k, p
	}
	if k, p, ok := classifyConditional(t); ok {
		return k, p
	}
	if m := crossPartRe.FindStringSubmatch(t); m != nil {
		offset, _ := strconv.Atoi(m[4])
		return KindCrossPartCount, Params{Attr: m[1], PartPath: m[2], XPath: m[3], Offset: offset}
	}
	if m := notEqualRe.FindStringSubmatch(t); m != nil {
		return KindAttributeNotEqual, Params{Attr: m[1], ExpectedValue: m[2]}
	}
	if m := equalsRe.FindStringSubmatch(t); m != nil {
		return KindAttributeEquals, Params{Attr: m[1], ExpectedValue: m[2]}
	}
	if m := comparisonRe.FindStringSubmatch(t); m != nil {
		return KindAttributeComparison, Params{Attr: m[1], CompareOp: m[2], OtherAttr: m[3]}
	}
	return KindUnknown, Params{}
}

// classifyRange handles rules 1-3: both-bounds range (either operand
// order — spec.md §8 requires order-independence) and single-sided
// range.
func classifyRange(t string) (Kind, Params, bool) {
	parts, ok := splitTopLevelAnd(t)
	if ok && len(parts) == 2 {
		a, aOK := parseBound(parts[0])
		b, bOK := parseBound(parts[1])
		if aOK && bOK && a.attr == b.attr && a.op != b.op {
			p := Params{Attr: a.attr}
			assignBound(&p, a)
			assignBound(&p, b)
			return KindAttributeValueRange, p, true
		}
	}
	if m := rangeGERe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.ParseFloat(strings.TrimSuffix(m[2], "f"), 64)
		return KindAttributeValueRange, Params{Attr: m[1], Min: &n}, true
	}
	if m := rangeLERe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.ParseFloat(strings.TrimSuffix(m[2], "f"), 64)
		return KindAttributeValueRange, Params{Attr: m[1], Max: &n}, true
	}
	return 0, Params{}, false
}

type bound struct {
	attr  string
	op    string // ">=" or "<="
	value float64
}

func parseBound(s string) (bound, bool) {
	if m := rangeGERe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(strings.TrimSuffix(m[2], "f"), 64)
		return bound{attr: m[1], op: ">=", value: n}, true
	}
	if m := rangeLERe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(strings.TrimSuffix(m[2], "f"), 64)
		return bound{attr: m[1], op: "<=", value: n}, true
	}
	return bound{}, false
}

func assignBound(p *Params, b bound) {
	v := b.value
	if b.op == ">=" {
		p.Min = &v
	} else {
		p.Max = &v
	}
}

// classifyLength handles rules 4-5: string-length range, both-sided or
// single-sided.
func classifyLength(t string) (Kind, Params, bool) {
	parts, ok := splitTopLevelAnd(t)
	if ok && len(parts) == 2 {
		if m1 := lengthGERe.FindStringSubmatch(parts[0]); m1 != nil {
			if m2 := lengthLERe.FindStringSubmatch(parts[1]); m2 != nil && m1[1] == m2[1] {
				min, _ := strconv.Atoi(m1[2])
				max, _ := strconv.Atoi(m2[2])
				return KindAttributeValueLength, Params{Attr: m1[1], MinLen: &min, MaxLen: &max}, true
			}
		}
		if m1 := lengthLERe.FindStringSubmatch(parts[0]); m1 != nil {
			if m2 := lengthGERe.FindStringSubmatch(parts[1]); m2 != nil && m1[1] == m2[1] {
				min, _ := strconv.Atoi(m2[2])
				max, _ := strconv.Atoi(m1[2])
				return KindAttributeValueLength, Params{Attr: m1[1], MinLen: &min, MaxLen: &max}, true
			}
		}
	}
	if m := lengthGERe.FindStringSubmatch(t); m != nil {
		min, _ := strconv.Atoi(m[2])
		return KindAttributeValueLength, Params{Attr: m[1], MinLen: &min}, true
	}
	if m := lengthLERe.FindStringSubmatch(t); m != nil {
		max, _ := strconv.Atoi(m[2])
		return KindAttributeValueLength, Params{Attr: m[1], MaxLen: &max}, true
	}
	return 0, Params{}, false
}

// classifyOr handles rule 13: a paren-aware top-level " or " split.
func classifyOr(t string) (Kind, Params, bool) {
	branches, ok := splitTopLevelOr(t)
	if !ok || len(branches) < 2 {
		return 0, Params{}, false
	}
	p := Params{}
	for _, br := range branches {
		if n := len(br); n >= 2 && br[0] == '(' && br[n-1] == ')' {
			depth := 0
			for _, ch := range br[1 : n-1] {
				if ch == '(' {
					depth++
				} else if ch == ')' {
					if depth--; depth < 0 {
						break
					}
				}
			}
			if depth == 0 {
				br = strings.TrimSpace(br[1 : n-1])
			}
		}
		k, sub := Classify(br)
		p.SubRules = append(p.SubRules, &Rule{Test: br, Kind: k, Params: sub})
	}
	return KindOrCondition, p, true
}

// classifyAndNotEqual handles rule 14: every top-level conjunct is of
// the exact form "@a != V".
func classifyAndNotEqual(t string) (Kind, Params, bool) {
	parts, ok := splitTopLevelAnd(t)
	if !ok || len(parts) < 2 {
		return 0, Params{}, false
	}
	p := Params{}
	for _, part := range parts {
		m := notEqualRe.FindStringSubmatch(part)
		if m == nil {
			return 0, Params{}, false
		}
		p.SubRules = append(p.SubRules, &Rule{Test: part, Kind: KindAttributeNotEqual, Params: Params{Attr: m[1], ExpectedValue: m[2]}})
	}
	return KindAndCondition, p, true
}

// classifyAttributesPresentAll handles rule 16: every top-level conjunct
// is a bare attribute reference.
func classifyAttributesPresentAll(t string) (Kind, Params, bool) {
	parts, ok := splitTopLevelAnd(t)
	if !ok || len(parts) < 2 {
		return 0, Params{}, false
	}
	var required []string
	for _, part := range parts {
		m := attrRefRe.FindStringSubmatch(part)
		if m == nil {
			return 0, Params{}, false
		}
		required = append(required, m[1])
	}
	return KindAttributesPresent, Params{RequiredAttrs: required}, true
}

// classifyConditional handles rule 17: "@a and <anything else>" — the
// first top-level conjunct is a bare attribute reference but the rest is
// not all bare references (classifyAttributesPresentAll already excludes
// that case by running first).
func classifyConditional(t string) (Kind, Params, bool) {
	parts, ok := splitTopLevelAnd(t)
	if !ok || len(parts) < 2 {
		return 0, Params{}, false
	}
	m := attrRefRe.FindStringSubmatch(parts[0])
	if m == nil {
		return 0, Params{}, false
	}
	rest := strings.Join(parts[1:], " and ")
	k, sub := Classify(rest)
	return KindConditionalValue, Params{Attr: m[1], SubRules: []*Rule{{Test: rest, Kind: k, Params: sub}}}, true
}

// splitTopLevelOr splits on " or " tokens at parenthesis depth 0,
// scanning left to right (spec.md §4.4 "Paren-aware top-level or
// splitting is required").
func splitTopLevelOr(t string) ([]string, bool) {
	return splitTopLevel(t, " or ")
}

// splitTopLevelAnd splits on " and " tokens at parenthesis depth 0.
func splitTopLevelAnd(t string) ([]string, bool) {
	return splitTopLevel(t, " and ")
}

func splitTopLevel(t, sep string) ([]string, bool) {
	depth := 0
	var parts []string
	start := 0
	i := 0
	for i < len(t) {
		switch t[i] {
		case '(', '[':
			depth++
			i++
			continue
		case ')', ']':
			depth--
			i++
			continue
		}
		if depth == 0 && strings.HasPrefix(t[i:], sep) {
			parts = append(parts, strings.TrimSpace(t[start:i]))
			i += len(sep)
			start = i
			continue
		}
		i++
	}
	if len(parts) == 0 {
		return nil, false
	}
	parts = append(parts, strings.TrimSpace(t[start:]))
	return parts, true
}
