// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the texdeps CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texdeps/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the texdeps CLI.
var rootCmd = &cobra.Command{
	Use:   "texdeps",
	Short: "Dependency extraction for manuscript build systems",
	Long: `texdeps scans manuscript sources (LaTeX, Markdown) for the external
resources they reference -- graphics, sub-documents, bibliography
databases -- and emits make-compatible dependency declarations so an
incremental build tool regenerates a document only when it or one of
its resources changes.

texdeps does not parse documents semantically, does not check that
referenced files exist, and does not build anything itself.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./texdeps.yaml or ~/.config/texdeps/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("texdeps")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "texdeps"))
		}
	}

	viper.SetDefault("scan.graphics_extension", ".pdf")
	viper.SetDefault("scan.output_extension", ".pdf")
	viper.SetDefault("index.db_path", "texdeps.db")

	viper.SetEnvPrefix("TEXDEPS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// scanConfig assembles the scan configuration from flags with config-file
// and environment fallbacks.
func scanConfig(cmd *cobra.Command) types.ScanConfig {
	graphicsExt, _ := cmd.Flags().GetString("graphics-ext")
	if graphicsExt == "" {
		graphicsExt = viper.GetString("scan.graphics_extension")
	}
	outputExt, _ := cmd.Flags().GetString("output-ext")
	if outputExt == "" {
		outputExt = viper.GetString("scan.output_extension")
	}

	return types.ScanConfig{
		GraphicsExtension: graphicsExt,
		OutputExtension:   outputExt,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
