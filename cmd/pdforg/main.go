// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdforg CLI.
// pdforg converts between the annotation set of a PDF file and an outline
// text document: annotations become heading blocks that can be reviewed and
// edited in a text editor and pushed back into the PDF.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdforg CLI.
var rootCmd = &cobra.Command{
	Use:   "pdforg",
	Short: "Convert between PDF annotations and outline documents",
	Long: `pdforg converts between two representations of document annotations:
the annotation set embedded in a PDF file, and a structured outline document.

Export turns every annotation into a heading block carrying the annotation's
properties, with highlights quoting the text under the selection. Import
reads heading blocks back and adds fresh annotations to the PDF.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdforg.yaml or ~/.config/pdforg/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdforg")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdforg"))
		}
	}

	viper.SetEnvPrefix("PDFORG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// counterpartName maps a document to its matching counterpart by extension:
// the outline document of a PDF and vice versa.
func counterpartName(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	base := strings.TrimSuffix(path, filepath.Ext(path))
	switch ext {
	case ".pdf":
		return base + ".org", nil
	case ".org":
		return base + ".pdf", nil
	}
	return "", fmt.Errorf("no counterpart for %q (expected a .pdf or .org file)", path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
