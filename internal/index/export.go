// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportDocument is one indexed document with its dependency edges.
type ExportDocument struct {
	Path   string      `json:"path" yaml:"path"`
	Format string      `json:"format" yaml:"format"`
	Target string      `json:"target" yaml:"target"`
	Deps   []ExportDep `json:"deps" yaml:"deps"`
}

// ExportDep is one dependency within an ExportDocument.
type ExportDep struct {
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"`
}

// ExportYAML writes the full index to path as YAML, documents sorted by
// path and dependencies by resolved path, so repeated exports of an
// unchanged index are byte-identical.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	docs, err := s.exportDocuments(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := ensureParentDir(path); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportDocuments(ctx context.Context) ([]ExportDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, format, target FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []ExportDocument
	for rows.Next() {
		var d ExportDocument
		if err := rows.Scan(&d.Path, &d.Format, &d.Target); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		edges, err := s.Deps(ctx, docs[i].Path)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			docs[i].Deps = append(docs[i].Deps, ExportDep{Path: e.Dependency, Kind: e.Kind})
		}
	}

	return docs, nil
}
