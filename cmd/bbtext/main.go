package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bbtext",
		Short: "Parse BBCode rich text",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTagsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
