package profile

import "strings"

// mainPartExtensions maps a main-part content type to the package file
// extension it should be packaged under (spec.md §4.9 "(d) main-part
// content-type ↔ file extension mapping").
var mainPartExtensions = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml":   "docx",
	"application/vnd.ms-word.document.macroEnabled.main+xml":                             "docm",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml": "pptx",
	"application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml":                   "pptm",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml":          "xlsx",
	"application/vnd.ms-excel.sheet.macroEnabled.main+xml":                                "xlsm",
}

// ExpectedExtension returns the file extension a package with this
// main-part content type should carry, if known.
func ExpectedExtension(mainContentType string) (string, bool) {
	ext, ok := mainPartExtensions[mainContentType]
	return ext, ok
}

// MatchesExtension reports whether a filename's extension is consistent
// with the main-part content type, when both are known. An unknown
// content type or filename extension is not itself an error here — the
// caller decides whether to report the mismatch.
func MatchesExtension(mainContentType, filename string) bool {
	want, ok := ExpectedExtension(mainContentType)
	if !ok {
		return true
	}
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return true
	}
	got := strings.ToLower(filename[idx+1:])
	return got == want || got == strings.TrimSuffix(want, "x")+"m" // macro-enabled variants share the non-macro base when unknown
}
