// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texdeps/internal/depfile"
	"github.com/pdiddy/texdeps/internal/extract"
	"github.com/pdiddy/texdeps/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <source-file> [<output-file>] [<target-file>]",
	Short: "Extract one document's resource dependencies into a make rule",
	Long: `Scan reads a single manuscript source, extracts every referenced
resource, resolves each against the document's own directory, and
writes a one-line make rule:

    <target>: <dep1> <dep2> ...

The output file defaults to the source path with a .dep extension; the
target defaults to the source path with the rendered-output extension
(.pdf). Both can be overridden positionally or by flag. The declaration
is replaced atomically: a failed run leaves any prior declaration
untouched.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	src := args[0]

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" && len(args) >= 2 {
		outPath = args[1]
	}
	target, _ := cmd.Flags().GetString("target")
	if target == "" && len(args) >= 3 {
		target = args[2]
	}

	cfg := scanConfig(cmd)
	sc := extract.NewScanner(cfg)

	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toStdout {
		_, refs, err := sc.ScanDocument(src)
		if err != nil {
			return err
		}
		if target == "" {
			target = depfile.DefaultTarget(src, cfg)
		}
		decl := types.Declaration{Target: target, Deps: depfile.Resolve(src, refs)}
		fmt.Fprint(os.Stdout, depfile.Render(decl))
		return nil
	}

	_, err := depfile.Generate(sc, src, outPath, target, cfg)
	return err
}

func init() {
	scanCmd.Flags().String("output", "", "declaration file to write (default: source with .dep extension)")
	scanCmd.Flags().String("target", "", "build target name (default: source with the rendered-output extension)")
	scanCmd.Flags().Bool("stdout", false, "print the declaration instead of writing a file")
	scanCmd.Flags().String("graphics-ext", "", "extension inferred for extension-less graphics references")
	scanCmd.Flags().String("output-ext", "", "rendered-output extension used for the default target")

	rootCmd.AddCommand(scanCmd)
}
