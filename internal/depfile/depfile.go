// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package depfile resolves extracted references against their document's
// directory and emits make-compatible dependency declarations.
package depfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/texdeps/internal/extract"
	"github.com/pdiddy/texdeps/pkg/types"
)

const (
	// depExt is the extension of emitted declaration files.
	depExt = ".dep"

	// defaultOutputExt is the rendered-target extension when none is configured.
	defaultOutputExt = ".pdf"
)

// Resolve joins each reference against the directory containing the
// referencing document (never the process working directory), collapses
// "." and ".." segments, deduplicates, and sorts lexicographically. The
// canonical order makes repeated runs over an unchanged document
// byte-identical, which incremental build tools rely on.
func Resolve(docPath string, refs []types.Reference) []string {
	dir := filepath.Dir(docPath)
	seen := make(map[string]bool, len(refs))
	var deps []string

	for _, ref := range refs {
		p := ref.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		deps = append(deps, p)
	}

	sort.Strings(deps)
	return deps
}

// DefaultTarget derives the build target for a document: its path with the
// source extension replaced by the rendered-output extension.
func DefaultTarget(docPath string, cfg types.ScanConfig) string {
	ext := cfg.OutputExtension
	if ext == "" {
		ext = defaultOutputExt
	}
	return replaceExt(docPath, ext)
}

// DefaultOutput derives the declaration file path for a document: its path
// with the source extension replaced by ".dep".
func DefaultOutput(docPath string) string {
	return replaceExt(docPath, depExt)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// Render formats a declaration as a single make rule line: the target,
// a colon, each dependency preceded by one space, and a trailing newline.
// Paths are not quoted; embedded spaces are not representable in this
// syntax.
func Render(decl types.Declaration) string {
	var b strings.Builder
	b.WriteString(decl.Target)
	b.WriteByte(':')
	for _, dep := range decl.Deps {
		b.WriteByte(' ')
		b.WriteString(dep)
	}
	b.WriteByte('\n')
	return b.String()
}

// Write renders the declaration to a temporary file beside the
// destination and renames it into place. A failed run therefore never
// leaves a truncated declaration; the prior one, if any, survives intact.
// The declaration is always regenerated in full, never appended to.
func Write(path string, decl types.Declaration) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Render(decl)), 0o644); err != nil {
		return fmt.Errorf("writing declaration %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing declaration %s: %w", path, err)
	}
	return nil
}

// Generate runs the full pipeline for one document: scan, resolve, and
// write the declaration. Empty outPath and target fall back to the
// document-derived defaults. On any failure nothing is written and the
// zero Declaration is returned.
func Generate(sc *extract.Scanner, docPath, outPath, target string, cfg types.ScanConfig) (types.Declaration, error) {
	_, refs, err := sc.ScanDocument(docPath)
	if err != nil {
		return types.Declaration{}, err
	}

	if target == "" {
		target = DefaultTarget(docPath, cfg)
	}
	if outPath == "" {
		outPath = DefaultOutput(docPath)
	}

	decl := types.Declaration{
		Target: target,
		Deps:   Resolve(docPath, refs),
	}

	if err := Write(outPath, decl); err != nil {
		return types.Declaration{}, err
	}
	return decl, nil
}
