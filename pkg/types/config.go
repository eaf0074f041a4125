// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// Overwrite silently replaces an existing outline document instead of
	// prompting for confirmation.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`

	// OutDir is an optional directory for generated outline documents.
	// When empty, documents are written next to their PDF.
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`
}

// ImportConfig holds settings for the import stage.
type ImportConfig struct {
	// Backup keeps a .bak copy of the PDF before it is rewritten.
	Backup bool `json:"backup" yaml:"backup"`
}

// Config groups all stage configurations.
type Config struct {
	Export ExportConfig `json:"export" yaml:"export"`
	Import ImportConfig `json:"import" yaml:"import"`
}
