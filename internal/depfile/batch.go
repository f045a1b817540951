// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depfile

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/texdeps/internal/extract"
	"github.com/pdiddy/texdeps/pkg/types"
)

// BatchResult holds the outcome of a tree-wide declaration run.
type BatchResult struct {
	Written int
	Skipped int
	Failed  int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Written + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// GenerateTree walks root and writes a declaration beside every supported
// document. Files whose extension matches no ruleset are passed over
// silently; hidden directories are not descended into. A document whose
// declaration is already newer than the source is skipped, so repeated
// runs over a stable tree only touch changed documents. Per-file status
// lines and a summary go to w.
func GenerateTree(sc *extract.Scanner, root string, cfg types.ScanConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		if _, err := extract.DetectFormat(path); err != nil {
			return nil // not a document
		}

		outPath := DefaultOutput(path)
		changed, err := sourceChanged(path, outPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			result.Failed++
			return nil
		}
		if !changed {
			fmt.Fprintf(w, "skipped %s\n", path)
			result.Skipped++
			return nil
		}

		decl, err := Generate(sc, path, outPath, "", cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			result.Failed++
			return nil
		}

		fmt.Fprintf(w, "wrote   %s (%d deps)\n", outPath, len(decl.Deps))
		result.Written++
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walking %s: %w", root, err)
	}

	fmt.Fprintf(w, "\nBatch summary: %d written, %d skipped, %d failed (total: %d)\n",
		result.Written, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// sourceChanged reports whether the document is newer than its declaration.
// A missing declaration counts as changed.
func sourceChanged(docPath, outPath string) (bool, error) {
	docInfo, err := os.Stat(docPath)
	if err != nil {
		return false, fmt.Errorf("stat document %s: %w", docPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat declaration %s: %w", outPath, err)
	}

	return docInfo.ModTime().After(outInfo.ModTime()), nil
}
