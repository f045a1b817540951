// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/texdeps/pkg/types"
)

// Scanner applies format rulesets to documents. Extension defaults from
// the configuration override the rule-table defaults for graphics and
// embedded images.
type Scanner struct {
	cfg types.ScanConfig
}

// NewScanner returns a Scanner using the given configuration.
func NewScanner(cfg types.ScanConfig) *Scanner {
	return &Scanner{cfg: cfg}
}

// ScanDocument reads the document at path, detects its format, and returns
// the document record with every raw reference in document order. A
// document with zero references is valid; the only failures are an
// unsupported extension or an unreadable file.
func (s *Scanner) ScanDocument(path string) (types.Document, []types.Reference, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return types.Document{}, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	doc := types.Document{Path: path, Format: format}
	return doc, References(string(data), s.rulesFor(format)), nil
}

// rulesFor returns the format's rule table with configured extension
// defaults applied to graphics and image rows.
func (s *Scanner) rulesFor(format types.Format) []Rule {
	base := RulesFor(format)
	if s.cfg.GraphicsExtension == "" {
		return base
	}
	rules := make([]Rule, len(base))
	copy(rules, base)
	for i := range rules {
		if rules[i].Kind == types.KindGraphic || rules[i].Kind == types.KindImage {
			rules[i].DefaultExt = s.cfg.GraphicsExtension
		}
	}
	return rules
}

// References scans text with the given rules and returns all raw mentions
// in document order. Matches from separate rules are merged by byte
// offset. The result is deliberately not deduplicated; uniqueness is the
// emitter's job, and the extractor's contract is every mention.
func References(text string, rules []Rule) []types.Reference {
	type hit struct {
		pos int
		ref types.Reference
	}

	var hits []hit
	for _, rule := range rules {
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]] // capture group 1 (the path)
			if filepath.Ext(raw) == "" {
				raw += rule.DefaultExt
			}
			hits = append(hits, hit{
				pos: m[0],
				ref: types.Reference{Path: raw, Kind: rule.Kind},
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	refs := make([]types.Reference, len(hits))
	for i, h := range hits {
		refs[i] = h.ref
	}
	return refs
}
