package verrors

import "fmt"

// FileFormat identifies the target Office/ODF generation for
// version-sensitive rules (spec.md §6).
type FileFormat int

const (
	Office2007 FileFormat = iota
	Office2010
	Office2013
	Office2016
	Office2019
	Office2021
	Microsoft365
	ODF12
	ODF13
)

// Context accumulates errors for a single package validation. It is
// single-use: construct one per ValidateBytes/ValidateFile call, never
// share across validations (registries are the only process-wide,
// shareable state — see internal/schema and internal/schematron).
type Context struct {
	Strict     bool
	MaxErrors  int // 0 = unlimited
	Format     FileFormat
	CurrentPart string

	pathStack []string
	errors    []*ValidationError

	// idScopes maps a scope name (typically the current part URI) to the
	// set of ids already observed, in insertion order is not needed here
	// since uniqueness only cares about membership — but the *errors*
	// emitted for it must stay insertion-ordered, which they do because
	// Add() appends in document order.
	idScopes map[string]map[string]bool
}

// NewContext creates a fresh, single-use validation context.
func NewContext(strict bool, maxErrors int, format FileFormat) *Context {
	return &Context{
		Strict:    strict,
		MaxErrors: maxErrors,
		Format:    format,
		idScopes:  make(map[string]map[string]bool),
	}
}

// PushPath appends a path segment (e.g. an element tag, optionally
// disambiguated with an index) to the element path stack.
func (c *Context) PushPath(segment string) {
	c.pathStack = append(c.pathStack, segment)
}

// PopPath removes the most recently pushed path segment.
func (c *Context) PopPath() {
	if len(c.pathStack) > 0 {
		c.pathStack = c.pathStack[:len(c.pathStack)-1]
	}
}

// Path renders the current element path stack, slash-joined.
func (c *Context) Path() string {
	if len(c.pathStack) == 0 {
		return ""
	}
	out := c.pathStack[0]
	for _, seg := range c.pathStack[1:] {
		out += "/" + seg
	}
	return out
}

// Add records an error, applying strict-mode demotion and the error
// ceiling. Package-class errors are never demoted (spec.md §6 "Strict
// flag"). Returns true if the pipeline should continue accepting more
// errors (i.e. the ceiling has not been reached).
func (c *Context) Add(e *ValidationError) bool {
	if e.Part == "" {
		e.Part = c.CurrentPart
	}
	if e.Path == "" {
		e.Path = c.Path()
	}
	if !c.Strict && e.Kind != KindPackage && e.Severity == SeverityError {
		e.Severity = SeverityWarning
	}
	c.errors = append(c.errors, e)
	return !c.AtCeiling()
}

// AtCeiling reports whether the configured max_errors bound has been hit.
// max_errors = 0 means unlimited.
func (c *Context) AtCeiling() bool {
	if c.MaxErrors <= 0 {
		return false
	}
	count := 0
	for _, e := range c.errors {
		if e.Severity == SeverityError {
			count++
		}
	}
	return count >= c.MaxErrors
}

// Errors returns all accumulated errors, in insertion (document) order.
func (c *Context) Errors() []*ValidationError {
	return c.errors
}

// IsValid reports whether no Error-severity record is present.
func (c *Context) IsValid() bool {
	for _, e := range c.errors {
		if e.Severity == SeverityError {
			return false
		}
	}
	return true
}

// TrackID records an id occurrence within a scope (typically a part
// URI). It returns false if the id was already present in that scope —
// the caller is then responsible for emitting the duplicate-id error,
// since the error text/kind varies by call site (spec.md §4.7.4).
func (c *Context) TrackID(scope, id string) bool {
	set, ok := c.idScopes[scope]
	if !ok {
		set = make(map[string]bool)
		c.idScopes[scope] = set
	}
	if set[id] {
		return false
	}
	set[id] = true
	return true
}

// Errorf is a convenience for recording a formatted Schema/Semantic/etc
// error at the current path.
func (c *Context) Errorf(kind Kind, severity Severity, format string, args ...any) bool {
	return c.Add(&ValidationError{
		Kind:        kind,
		Severity:    severity,
		Description: fmt.Sprintf(format, args...),
	})
}
