// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texdeps/internal/extract"
	"github.com/pdiddy/texdeps/internal/index"
	"github.com/pdiddy/texdeps/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the dependency-graph index (build, deps, rdeps, export)",
	Long: `Index maintains a SQLite database of dependency edges across a
manuscript tree. Build it once, then query which resources a document
depends on, or which documents would rebuild if a resource changed,
without re-scanning the tree.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Scan a manuscript tree into the index",
	Long: `Build walks a directory tree (default: the current directory), scans
every supported document, and replaces its dependency edges in the
index. Documents unchanged since their last indexing are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := scanConfig(cmd)
	sc := extract.NewScanner(cfg)
	summary, err := store.Build(context.Background(), sc, root, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- deps subcommand ---

var indexDepsCmd = &cobra.Command{
	Use:   "deps <document>",
	Short: "List the indexed dependencies of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexDeps,
}

func runIndexDeps(cmd *cobra.Command, args []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	edges, err := store.Deps(context.Background(), args[0])
	if err != nil {
		return err
	}
	return formatEdges(cmd, edges, func(e index.Edge) string { return e.Dependency })
}

// --- rdeps subcommand ---

var indexRdepsCmd = &cobra.Command{
	Use:   "rdeps <resource>",
	Short: "List the documents that depend on a resource",
	Long: `Rdeps answers the staleness question in reverse: given a resource
path (as resolved in the declarations), list every indexed document
that references it.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexRdeps,
}

func runIndexRdeps(cmd *cobra.Command, args []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	edges, err := store.Rdeps(context.Background(), args[0])
	if err != nil {
		return err
	}
	return formatEdges(cmd, edges, func(e index.Edge) string { return e.Document })
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full index to YAML",
	RunE:  runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out, _ := cmd.Flags().GetString("out")
	if err := store.ExportYAML(context.Background(), out); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}

// --- shared helpers ---

func openIndex(cmd *cobra.Command) (*index.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("index.db_path")
	}
	return index.NewStore(types.IndexConfig{DBPath: dbPath})
}

func formatEdges(cmd *cobra.Command, edges []index.Edge, column func(index.Edge) string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(edges)
	}

	if len(edges) == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	for _, e := range edges {
		fmt.Fprintf(os.Stdout, "%-12s  %s\n", e.Kind, column(e))
	}
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db", "", "index database path (default: texdeps.db)")

	// Build flags.
	indexBuildCmd.Flags().String("graphics-ext", "", "extension inferred for extension-less graphics references")
	indexBuildCmd.Flags().String("output-ext", "", "rendered-output extension used for targets")

	// Query flags.
	indexDepsCmd.Flags().Bool("json", false, "output edges as JSON")
	indexRdepsCmd.Flags().Bool("json", false, "output edges as JSON")

	// Export flags.
	indexExportCmd.Flags().String("out", "texdeps-index.yaml", "export file path")

	// Wire subcommands.
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexDepsCmd)
	indexCmd.AddCommand(indexRdepsCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
