// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdforg/internal/export"
	"github.com/pdiddy/pdforg/internal/org"
	"github.com/pdiddy/pdforg/internal/pdfstore"
	"github.com/pdiddy/pdforg/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [pdf] [outline]",
	Short: "Export a PDF's annotations to an outline document",
	Long: `Export reads every annotation from the PDF, sorts them by page and
position, and writes one heading block per annotation into a new outline
document (by default next to the PDF, with the extension swapped). Link
annotations are skipped. Highlights and other text markup quote the text
under the selection.

If the target document already exists, export asks before overwriting it
unless --force or the export.overwrite config option is set. With --batch,
every PDF matching the glob is exported and existing targets are skipped.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Bool("force", false, "overwrite an existing outline document without asking")
	exportCmd.Flags().String("batch", "", "export every PDF matching a glob (doublestar patterns like papers/**/*.pdf)")
	exportCmd.Flags().String("out-dir", "", "directory for outline documents (default: next to each PDF)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	batch, _ := cmd.Flags().GetString("batch")
	outDir, _ := cmd.Flags().GetString("out-dir")

	cfg := types.ExportConfig{
		Overwrite: force || viper.GetBool("export.overwrite"),
		OutDir:    outDir,
	}
	if cfg.OutDir == "" {
		cfg.OutDir = viper.GetString("export.out_dir")
	}

	if batch != "" {
		res := exportBatch(batch, cfg, os.Stdout)
		if res.Failed > 0 {
			return fmt.Errorf("%d document(s) failed to export", res.Failed)
		}
		return nil
	}

	if len(args) < 1 {
		return fmt.Errorf("export needs a PDF file (or --batch)")
	}
	pdfPath := args[0]
	target, err := exportTarget(pdfPath, args, cfg.OutDir)
	if err != nil {
		return err
	}

	if _, err := os.Stat(target); err == nil && !cfg.Overwrite {
		ok, err := confirm(fmt.Sprintf("%s exists, overwrite?", target))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "aborted")
			return nil
		}
	}

	n, err := exportOne(pdfPath, target)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d annotation(s) to %s\n", n, target)
	return nil
}

func exportTarget(pdfPath string, args []string, outDir string) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	target, err := counterpartName(pdfPath)
	if err != nil {
		return "", err
	}
	if outDir != "" {
		target = filepath.Join(outDir, filepath.Base(target))
	}
	return target, nil
}

// exportOne converts one PDF and writes the outline document, returning the
// number of exported annotations.
func exportOne(pdfPath, target string) (int, error) {
	src, err := pdfstore.Open(pdfPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	doc, err := export.Export(src, target, types.ExportableProps)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(target, []byte(org.Render(doc)), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", target, err)
	}
	return len(doc.Headings), nil
}

// batchResult holds the outcome of a batch export run.
type batchResult struct {
	Exported int
	Skipped  int
	Failed   int
}

// Total returns the total number of documents processed.
func (r batchResult) Total() int {
	return r.Exported + r.Skipped + r.Failed
}

// exportBatch exports every PDF matching the glob, printing per-file status
// to w and returning a summary. Existing targets are skipped rather than
// prompted for.
func exportBatch(pattern string, cfg types.ExportConfig, w io.Writer) batchResult {
	var res batchResult

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		fmt.Fprintf(w, "failed:  bad pattern %q (%v)\n", pattern, err)
		res.Failed++
		return res
	}

	for _, pdfPath := range matches {
		if !strings.EqualFold(filepath.Ext(pdfPath), ".pdf") {
			continue
		}
		target, err := exportTarget(pdfPath, []string{pdfPath}, cfg.OutDir)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", pdfPath, err)
			res.Failed++
			continue
		}
		if _, err := os.Stat(target); err == nil && !cfg.Overwrite {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", target)
			res.Skipped++
			continue
		}
		n, err := exportOne(pdfPath, target)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", pdfPath, err)
			res.Failed++
			continue
		}
		fmt.Fprintf(w, "exported: %s (%d annotations)\n", target, n)
		res.Exported++
	}

	fmt.Fprintf(w, "\nBatch summary: %d exported, %d skipped, %d failed (total: %d)\n",
		res.Exported, res.Skipped, res.Failed, res.Total())
	return res
}

// confirm asks a yes/no question on the terminal.
func confirm(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}
