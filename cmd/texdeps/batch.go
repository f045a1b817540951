// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texdeps/internal/depfile"
	"github.com/pdiddy/texdeps/internal/extract"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Write declarations for every document under a directory",
	Long: `Batch walks a directory tree (default: the current directory), scans
every supported document, and writes each declaration beside its
source. Documents whose declaration is already newer than the source
are skipped, so repeated runs only touch what changed. Files with
unsupported extensions are passed over without error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg := scanConfig(cmd)
	sc := extract.NewScanner(cfg)

	result, err := depfile.GenerateTree(sc, root, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed", result.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().String("graphics-ext", "", "extension inferred for extension-less graphics references")
	batchCmd.Flags().String("output-ext", "", "rendered-output extension used for targets")

	rootCmd.AddCommand(batchCmd)
}
