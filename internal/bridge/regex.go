package bridge

import (
	"regexp"
	"strings"
)

var xpathCharClassRe = regexp.MustCompile(`\\p\{[^}]*\}`)

// TranslateXPathRegex best-effort translates an XPath-flavored regex
// literal (as found in Schematron `matches()` tests) to a host
// regexp.Regexp, per spec.md §4.5's five substitution rules. Returns an
// error if the translated pattern fails to compile; callers drop the
// rule rather than treat it as fatal.
func TranslateXPathRegex(pattern string) (*regexp.Regexp, error) {
	translated := xpathCharClassRe.ReplaceAllStringFunc(pattern, func(class string) string {
		switch class {
		case `\p{L}`:
			return `\w`
		case `\p{N}`:
			return `\d`
		default:
			return `.`
		}
	})
	translated = strings.ReplaceAll(translated, `\i`, `[A-Za-z_:]`)
	translated = strings.ReplaceAll(translated, `\c`, `[A-Za-z0-9_:.-]`)
	return regexp.Compile(translated)
}
