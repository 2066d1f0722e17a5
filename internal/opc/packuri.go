// Package opc implements the Open Packaging Conventions layer: a
// ZIP-backed part graph with typed content and a relationship graph.
//
// Grounded on go-docx/pkg/docx/opc/{package,part,reader}.go — the shape
// (PackURI, Part, PackageReader) is kept, but behavior is rewritten for
// read-only structural/semantic auditing rather than document editing:
// there is no writer, no part factory for constructing new parts, and
// every operation that the teacher raises a Go error from instead
// records a *verrors.ValidationError and degrades gracefully, per
// spec.md §4.1: "Never raises across the public API; populates the
// error sink instead."
package opc

import (
	"path"
	"strings"
)

// PackURI is a slash-prefixed part name, e.g. "/ppt/slides/slide1.xml".
type PackURI string

// PackageURI is the pseudo-source-URI used for package-level (root)
// relationships, i.e. the relationships owned by /_rels/.rels.
const PackageURI PackURI = "/"

// ContentTypesURI is the fixed part name of the content-types part.
const ContentTypesURI PackURI = "/[Content_Types].xml"

// Normalize ensures a leading slash; the empty string maps to the
// package root "/". A trailing slash is left as it is.
func Normalize(uri string) PackURI {
	if uri == "" {
		return PackageURI
	}
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return PackURI(uri)
}

// BaseURI returns the directory containing this part, e.g.
// "/ppt/slides/slide1.xml".BaseURI() == "/ppt/slides".
func (p PackURI) BaseURI() string {
	dir := path.Dir(string(p))
	if dir == "." {
		return "/"
	}
	return dir
}

// Basename returns the final path segment, e.g. "slide1.xml".
func (p PackURI) Basename() string {
	return path.Base(string(p))
}

// Ext returns the lowercase extension without the leading dot, e.g. "xml".
func (p PackURI) Ext() string {
	base := p.Basename()
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// RelsURI returns the path of this part's relationship file, per
// spec.md §4.2 get-rels-path: for the root, "/_rels/.rels"; otherwise
// "<dir>/_rels/<basename>.rels".
func (p PackURI) RelsURI() PackURI {
	if p == PackageURI {
		return "/_rels/.rels"
	}
	dir := p.BaseURI()
	if dir == "/" {
		return PackURI("/_rels/" + p.Basename() + ".rels")
	}
	return PackURI(dir + "/_rels/" + p.Basename() + ".rels")
}

// FromRelRef resolves a relationship TargetRef against a source base URI,
// normalizing "." and ".." segments. Internal targets are always resolved
// relative to the source part's directory (spec.md §3 "Relationship").
func FromRelRef(baseURI, targetRef string) PackURI {
	if strings.HasPrefix(targetRef, "/") {
		return Normalize(path.Clean(targetRef))
	}
	joined := path.Join(baseURI, targetRef)
	return Normalize(path.Clean(joined))
}

// Resolve is the idempotent form required by spec.md §8:
// resolve(resolve(t)) == resolve(t). Since FromRelRef/Normalize always
// produce an absolute, path.Clean'd URI, re-resolving an already-resolved
// URI against "/" (its own directory has no bearing once absolute) is a
// no-op.
func Resolve(uri PackURI) PackURI {
	return Normalize(path.Clean(string(uri)))
}
