package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Drolfothesgnir/bbtext/bbcode"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the built-in tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(cmd.OutOrStdout())
		},
	}
}

func runTags(out io.Writer) error {
	reg := bbcode.NewRegistry()
	if err := reg.RegisterDefaults(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tGREED\tNOTES")

	for _, tag := range reg.Tags() {
		if text, ok := reg.Conversion(tag); ok {
			fmt.Fprintf(w, "%s\t-\tconverts to %s\n", tag, strconv.QuoteToASCII(text))
			continue
		}

		e, _ := reg.Entry(tag)
		notes := ""
		switch {
		case e.Void:
			notes = "no content"
		case e.TrimNewlines:
			notes = "trims newlines"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tag, e.Greed, notes)
	}

	return w.Flush()
}
