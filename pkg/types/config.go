// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScanConfig holds settings for the scan and batch stages.
type ScanConfig struct {
	// GraphicsExtension is appended to extension-less graphics references
	// (default ".pdf"). The underlying typesetter resolves such references
	// implicitly; the scanner must mirror that convention.
	GraphicsExtension string `json:"graphics_extension" yaml:"graphics_extension"`

	// OutputExtension is the rendered-target extension used when deriving
	// a build target from a source path (default ".pdf").
	OutputExtension string `json:"output_extension" yaml:"output_extension"`
}

// IndexConfig holds settings for the dependency-graph index.
type IndexConfig struct {
	// DBPath is the SQLite database location (default "texdeps.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}
