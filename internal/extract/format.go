// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds external-resource references within manuscript
// sources. format.go selects the extraction ruleset for a document;
// extract.go applies it.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/texdeps/pkg/types"
)

// UnsupportedFormatError reports a source file whose extension matches no
// extraction ruleset. It is fatal; there is no fallback format.
type UnsupportedFormatError struct {
	// Path is the offending source file.
	Path string

	// Ext is the extension that failed to match, lowercased.
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q for %s (supported: .tex, .ltx, .md, .markdown)", e.Ext, e.Path)
}

// formatByExt maps lowercased source extensions to formats.
var formatByExt = map[string]types.Format{
	".tex":      types.FormatLaTeX,
	".ltx":      types.FormatLaTeX,
	".md":       types.FormatMarkdown,
	".markdown": types.FormatMarkdown,
}

// DetectFormat selects the extraction ruleset for a document by inspecting
// its file extension. Returns *UnsupportedFormatError when the extension
// matches no ruleset.
func DetectFormat(path string) (types.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formatByExt[ext]
	if !ok {
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
	return format, nil
}

// Rule is one row of a format's extraction table: a directive pattern with
// a single capture group for the path, the kind of reference it produces,
// and the extension appended when the captured path has none. Supporting a
// new format means adding a table below and an entry in formatByExt.
type Rule struct {
	Pattern    *regexp.Regexp
	Kind       types.ReferenceKind
	DefaultExt string
}

var (
	// markdownRules recognizes one directive: an empty-alt embedded image
	// anchored at the start of a line, e.g. ![](figures/energy.pdf).
	markdownRules = []Rule{
		{regexp.MustCompile(`(?m)^!\[\]\(([^)\s]+)\)`), types.KindImage, ".pdf"},
	}

	// latexRules recognizes sub-document, bibliography, and graphics
	// directives anywhere in the text. The bracket group on
	// \includegraphics skips the option list without capturing it.
	latexRules = []Rule{
		{regexp.MustCompile(`\\(?:input|include)\{([^}]+)\}`), types.KindSubDocument, ".tex"},
		{regexp.MustCompile(`\\bibliography\{([^}]+)\}`), types.KindBibliography, ".bib"},
		{regexp.MustCompile(`\\includegraphics(?:\[[^\]]*\])?\{([^}]+)\}`), types.KindGraphic, ".pdf"},
	}
)

// RulesFor returns the default extraction rule table for a format.
func RulesFor(format types.Format) []Rule {
	switch format {
	case types.FormatLaTeX:
		return latexRules
	case types.FormatMarkdown:
		return markdownRules
	}
	return nil
}
