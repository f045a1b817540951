// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared across texdeps stages.
package types

// Format identifies a supported document source format.
type Format string

const (
	// FormatLaTeX covers .tex and .ltx sources.
	FormatLaTeX Format = "latex"

	// FormatMarkdown covers .md and .markdown sources.
	FormatMarkdown Format = "markdown"
)

// Document is a manuscript source file together with its detected format.
// It is an immutable input; texdeps never modifies the source.
type Document struct {
	// Path is the source file location as given on the command line,
	// or relative to the batch root for tree scans.
	Path string `json:"path" yaml:"path"`

	// Format is the extraction ruleset that applies to this document.
	Format Format `json:"format" yaml:"format"`
}

// ReferenceKind categorizes how a resource is referenced in a document.
type ReferenceKind string

const (
	// KindImage is a Markdown embedded-image directive.
	KindImage ReferenceKind = "image"

	// KindSubDocument is a LaTeX \input or \include directive.
	KindSubDocument ReferenceKind = "subdocument"

	// KindBibliography is a LaTeX \bibliography directive.
	KindBibliography ReferenceKind = "bibliography"

	// KindGraphic is a LaTeX \includegraphics directive.
	KindGraphic ReferenceKind = "graphic"
)

// Reference is a single resource mention extracted from a document: the
// path as written in the source (after default-extension inference), plus
// the kind of directive that produced it. References carry no resolution;
// joining against the document directory happens in the emitter.
type Reference struct {
	// Path is the referenced path as written, with the format's default
	// extension appended when the source omitted one.
	Path string `json:"path" yaml:"path"`

	// Kind records the directive that produced this reference.
	Kind ReferenceKind `json:"kind" yaml:"kind"`
}

// Declaration is the emitted dependency rule: a build target mapped to
// its ordered, deduplicated prerequisite set. Deps are sorted so repeated
// runs over an unchanged document render byte-identical output.
type Declaration struct {
	// Target is the file the document produces when rendered.
	Target string `json:"target" yaml:"target"`

	// Deps are the resolved prerequisite paths, deduplicated and sorted.
	Deps []string `json:"deps" yaml:"deps"`
}
