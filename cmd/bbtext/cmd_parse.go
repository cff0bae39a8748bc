package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Drolfothesgnir/bbtext/bbcode"
	"github.com/Drolfothesgnir/bbtext/plaintext"
	"github.com/Drolfothesgnir/bbtext/resource"
)

type parseOptions struct {
	format    string
	stream    bool
	resources string
	limits    bbcode.Limits
	verbose   bool
}

func newParseCmd() *cobra.Command {
	opts := parseOptions{limits: bbcode.DefaultLimits()}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a BBCode document",
		Long: `Parse a BBCode document and print the result to stdout.

If no file is provided, reads the document from stdin.

Formats:
  json      the item tree, parsed text and warnings
  parsed    the text without markup
  display   the text as shown in help pages, with paragraph breaks
  warnings  one warning per line`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error

			if len(args) == 0 {
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				source, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			return runParse(cmd.OutOrStdout(), cmd.ErrOrStderr(), string(source), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json, parsed, display or warnings")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "feed the document to the parser line by line")
	cmd.Flags().StringVar(&opts.resources, "resources", "", "directory to load fonts and images from")
	cmd.Flags().IntVar(&opts.limits.MaxTagLen, "max-tag-len", opts.limits.MaxTagLen, "maximum tag length in characters, 0 for no limit")
	cmd.Flags().IntVar(&opts.limits.MaxLookahead, "max-lookahead", opts.limits.MaxLookahead, "maximum characters searched for a closing tag, 0 for no limit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log parser diagnostics to stderr")

	return cmd
}

func runParse(out, errOut io.Writer, source string, opts parseOptions) error {
	switch opts.format {
	case "json", "parsed", "display", "warnings":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	reg := bbcode.NewRegistry()
	if err := reg.RegisterDefaults(); err != nil {
		return err
	}

	logger := zerolog.Nop()
	if opts.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut}).Level(zerolog.DebugLevel)
	}

	renderer := plaintext.NewRenderer()
	parserOpts := []bbcode.ParserOption{
		bbcode.WithLimits(opts.limits),
		bbcode.WithLogger(logger),
		bbcode.WithWarnings(bbcode.WarnOverflowNoCap, 0),
		bbcode.WithListener(renderer),
	}

	if opts.resources != "" {
		parserOpts = append(parserOpts, bbcode.WithLoader(resource.NewDirLoader(opts.resources)))
	}

	p, err := bbcode.New(reg, parserOpts...)
	if err != nil {
		return err
	}

	if opts.stream {
		for line := range strings.SplitAfterSeq(source, "\n") {
			if err := p.Append(line); err != nil {
				return fmt.Errorf("parse: %w", err)
			}
		}
	} else if err := p.Parse(source); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if err := p.Finish(); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	w := bufio.NewWriter(out)

	switch opts.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p.Serialize()); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case "parsed":
		fmt.Fprintln(w, p.ParsedText())
	case "display":
		fmt.Fprintln(w, renderer.String())
	case "warnings":
		for _, warn := range p.Warnings() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", warn.Pos, warn.Issue, warn.Description)
		}
	}

	return w.Flush()
}
