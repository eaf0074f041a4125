// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdforg/internal/ingest"
	"github.com/pdiddy/pdforg/internal/org"
	"github.com/pdiddy/pdforg/internal/pdfstore"
	"github.com/pdiddy/pdforg/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import [outline] [pdf]",
	Short: "Import heading blocks from an outline document into a PDF",
	Long: `Import reads the heading blocks of an outline document and adds one
fresh annotation per heading to the PDF. The PDF defaults to the document the
first heading links to, or the outline's counterpart by extension.

The pass stops at the first malformed heading; in that case the PDF on disk
is left untouched. The rewritten PDF replaces the original through an atomic
rename; --backup (or the import.backup config option) keeps a .bak copy.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("output", "", "write the resulting PDF here instead of replacing the original")
	importCmd.Flags().Bool("backup", false, "keep a .bak copy of the replaced PDF")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	backup, _ := cmd.Flags().GetBool("backup")

	cfg := types.ImportConfig{
		Backup: backup || viper.GetBool("import.backup"),
	}

	orgPath := args[0]
	data, err := os.ReadFile(orgPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", orgPath, err)
	}
	doc, err := org.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", orgPath, err)
	}

	pdfPath, err := importTarget(orgPath, doc, args)
	if err != nil {
		return err
	}

	sink, err := pdfstore.OpenSink(pdfPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	added, err := ingest.Import(doc, sink, types.ExportableProps, types.ImportableProps)
	if err != nil {
		return fmt.Errorf("%w (%d annotation(s) parsed before the failure; %s left unchanged)",
			err, added, pdfPath)
	}
	if added == 0 {
		fmt.Printf("nothing to import from %s\n", orgPath)
		return nil
	}

	if output == "" {
		output = pdfPath
	}
	if err := sink.Save(output, cfg.Backup); err != nil {
		return err
	}
	fmt.Printf("imported %d annotation(s) into %s\n", added, output)
	return nil
}

// importTarget picks the PDF to import into: the explicit argument, the
// document the first heading links to (relative to the outline document),
// or the outline's counterpart.
func importTarget(orgPath string, doc *org.Document, args []string) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	for _, h := range doc.Headings {
		if h.Link != nil && h.Link.Path != "" {
			p := h.Link.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(filepath.Dir(orgPath), p)
			}
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
			return h.Link.Path, nil
		}
	}
	return counterpartName(orgPath)
}
