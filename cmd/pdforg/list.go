// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdforg/internal/pdfstore"
	"github.com/pdiddy/pdforg/pkg/types"
)

// listFile is the YAML document printed by the list command. Keeping the
// source path and count alongside the records lets the output be archived
// and diffed without losing track of which PDF it came from.
type listFile struct {
	Source      string              `yaml:"source"`
	Count       int                 `yaml:"count"`
	Annotations []*types.Annotation `yaml:"annotations"`
}

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list [pdf]",
	Short: "Dump the annotations of a PDF as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(args[0])
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "", "write the listing to a file instead of stdout")
	rootCmd.AddCommand(listCmd)
}

func runList(pdfPath string) error {
	src, err := pdfstore.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer src.Close()

	annots, err := src.Annotations()
	if err != nil {
		return fmt.Errorf("reading annotations from %s: %w", pdfPath, err)
	}

	out, err := yaml.Marshal(listFile{
		Source:      pdfPath,
		Count:       len(annots),
		Annotations: annots,
	})
	if err != nil {
		return fmt.Errorf("encoding listing: %w", err)
	}

	if listOutput == "" {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(listOutput, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", listOutput, err)
	}
	fmt.Printf("wrote %d annotation(s) to %s\n", len(annots), listOutput)
	return nil
}
