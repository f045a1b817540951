// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists dependency edges across a manuscript tree in a
// SQLite database, so reverse-dependency questions ("what rebuilds if this
// figure changes?") do not require re-scanning every document. The index
// is a convenience cache; the scan pipeline itself keeps no state beyond
// the declaration files it writes.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/texdeps/internal/depfile"
	"github.com/pdiddy/texdeps/internal/extract"
	"github.com/pdiddy/texdeps/pkg/types"
)

// defaultDBPath is used when the configuration does not name a database.
const defaultDBPath = "texdeps.db"

// Store manages the dependency-graph SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the index database at cfg.DBPath, creating
// the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			target TEXT NOT NULL,
			scanned_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			document TEXT NOT NULL REFERENCES documents(path),
			dependency TEXT NOT NULL,
			kind TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_document ON edges(document)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_dependency ON edges(dependency)`,
		`CREATE TABLE IF NOT EXISTS scan_status (
			document TEXT PRIMARY KEY,
			file_mod_time TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BuildSummary holds counts from an index build run.
type BuildSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s BuildSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed indexing.
func (s BuildSummary) HasFailures() bool {
	return s.Failed > 0
}

// Build walks root, scans every supported document, and replaces its edge
// set in the database. Documents unchanged since their last indexing (by
// file modification time) are skipped. Per-file status lines and a summary
// go to w.
func (s *Store) Build(ctx context.Context, sc *extract.Scanner, root string, cfg types.ScanConfig, w io.Writer) (BuildSummary, error) {
	var summary BuildSummary

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

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		info, err := d.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			return nil
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM scan_status WHERE document = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			return nil
		}
		isUpdate := err == nil

		doc, refs, err := sc.ScanDocument(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			return nil
		}

		if err := s.ingestDocument(ctx, doc, refs, cfg, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			return nil
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d refs)\n", path, len(refs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d refs)\n", path, len(refs))
			summary.Indexed++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walking %s: %w", root, err)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// ingestDocument replaces a document's record and edges in one transaction.
func (s *Store) ingestDocument(ctx context.Context, doc types.Document, refs []types.Reference, cfg types.ScanConfig, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE document = ?`, doc.Path); err != nil {
		return fmt.Errorf("deleting old edges: %w", err)
	}

	target := depfile.DefaultTarget(doc.Path, cfg)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, format, target, scanned_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			format=excluded.format, target=excluded.target, scanned_at=excluded.scanned_at`,
		doc.Path, string(doc.Format), target, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (document, dependency, kind) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	// Edges store resolved paths so deps/rdeps answers line up with the
	// emitted declarations. Kinds survive resolution by resolving one
	// reference at a time.
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		resolved := depfile.Resolve(doc.Path, []types.Reference{ref})
		if len(resolved) == 0 || seen[resolved[0]] {
			continue
		}
		seen[resolved[0]] = true
		if _, err := stmt.ExecContext(ctx, doc.Path, resolved[0], string(ref.Kind)); err != nil {
			return fmt.Errorf("inserting edge %s: %w", resolved[0], err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_status (document, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(document) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		doc.Path, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating scan status: %w", err)
	}

	return tx.Commit()
}

// Edge is one dependency relation held by the index.
type Edge struct {
	Document   string `json:"document" yaml:"document"`
	Dependency string `json:"dependency" yaml:"dependency"`
	Kind       string `json:"kind" yaml:"kind"`
}

// Deps returns a document's dependency edges, sorted by dependency path.
func (s *Store) Deps(ctx context.Context, docPath string) ([]Edge, error) {
	return s.queryEdges(ctx,
		`SELECT document, dependency, kind FROM edges
		 WHERE document = ? ORDER BY dependency`, docPath)
}

// Rdeps returns the edges of every document that depends on the given
// resource, sorted by document path.
func (s *Store) Rdeps(ctx context.Context, resource string) ([]Edge, error) {
	return s.queryEdges(ctx,
		`SELECT document, dependency, kind FROM edges
		 WHERE dependency = ? ORDER BY document`, resource)
}

func (s *Store) queryEdges(ctx context.Context, query, arg string) ([]Edge, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.Document, &e.Dependency, &e.Kind); err != nil {
			return nil, fmt.Errorf("scanning edge row: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ensureParentDir creates the directory holding path if needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
