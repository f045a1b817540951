// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"testing"

	"github.com/pdiddy/texdeps/pkg/types"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want types.Format
	}{
		{"paper.tex", types.FormatLaTeX},
		{"Manuscript/main.ltx", types.FormatLaTeX},
		{"notes.md", types.FormatMarkdown},
		{"notes.markdown", types.FormatMarkdown},
		{"REPORT.TEX", types.FormatLaTeX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if err != nil {
				t.Fatalf("DetectFormat(%q) error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetectFormatUnsupported(t *testing.T) {
	tests := []string{
		"notes.docx",
		"plot.py",
		"README",
		"archive.tar.gz",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			_, err := DetectFormat(path)
			if err == nil {
				t.Fatalf("DetectFormat(%q) succeeded, want UnsupportedFormatError", path)
			}
			var ufe *UnsupportedFormatError
			if !errors.As(err, &ufe) {
				t.Errorf("DetectFormat(%q) error = %T, want *UnsupportedFormatError", path, err)
			}
		})
	}
}

func TestRulesFor(t *testing.T) {
	if got := len(RulesFor(types.FormatLaTeX)); got != 3 {
		t.Errorf("LaTeX ruleset has %d rules, want 3", got)
	}
	if got := len(RulesFor(types.FormatMarkdown)); got != 1 {
		t.Errorf("Markdown ruleset has %d rules, want 1", got)
	}
	if got := RulesFor(types.Format("docbook")); got != nil {
		t.Errorf("unknown format ruleset = %v, want nil", got)
	}
}
