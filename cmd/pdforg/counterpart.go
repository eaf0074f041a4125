// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var counterpartCmd = &cobra.Command{
	Use:   "counterpart [file]",
	Short: "Print the matching PDF/outline counterpart of a file",
	Long: `Counterpart maps a PDF to its outline document and vice versa by
swapping the file extension. The path is printed whether or not the file
exists; a note goes to stderr when it does not, so shell wrappers can jump
between the two files with a single binding.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		other, err := counterpartName(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(other); err != nil {
			fmt.Fprintf(os.Stderr, "note: %s does not exist yet\n", other)
		}
		fmt.Println(other)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(counterpartCmd)
}
