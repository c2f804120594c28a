package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdrecords/internal/records"
	"github.com/dgallion1/mdrecords/internal/source"
)

type extractOptions struct {
	pretty    bool
	jsonl     bool
	pdftotext bool
}

// document is one input's output when several inputs are given.
type document struct {
	Source  string           `json:"source"`
	Title   string           `json:"title"`
	Records []records.Record `json:"records"`
}

func newExtractCmd() *cobra.Command {
	var opts extractOptions
	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract records from files or standard input",
		Long: `Extract converts each file by its extension (.md, .txt, .csv, .html,
.pdf, .docx) and prints its records as JSON. With no file, or with "-",
markdown is read from standard input.

A single input prints its record array. Several inputs print an array of
{source, title, records} objects. --jsonl prints one record per line.

Examples:
  mdrecords extract README.md --pretty
  cat notes.md | mdrecords extract --jsonl
  mdrecords extract guide.html report.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.pretty && opts.jsonl {
				return fmt.Errorf("--pretty and --jsonl are mutually exclusive")
			}
			return runExtract(cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	cmd.Flags().BoolVar(&opts.jsonl, "jsonl", false, "Print one record per line")
	cmd.Flags().BoolVar(&opts.pdftotext, "pdftotext", false, "Fall back to pdftotext for PDFs the built-in reader cannot parse")
	return cmd
}

func runExtract(stdin io.Reader, stdout io.Writer, args []string, opts extractOptions) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	docs := make([]document, 0, len(args))
	for _, arg := range args {
		doc, err := extractOne(stdin, arg, source.Options{PDFFallbackPdftotext: opts.pdftotext})
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()

	if opts.jsonl {
		enc := json.NewEncoder(w)
		for _, d := range docs {
			for _, r := range d.Records {
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("encode record: %w", err)
				}
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	var out any = docs
	if len(docs) == 1 {
		out = docs[0].Records
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func extractOne(stdin io.Reader, arg string, opts source.Options) (document, error) {
	name := arg
	var r io.Reader
	var conv source.Converter
	if arg == "-" {
		name = "stdin"
		r = stdin
		conv = &source.MarkdownConverter{}
	} else {
		c, err := source.ForFile(arg, opts)
		if err != nil {
			return document{}, fmt.Errorf("%s: %w", arg, err)
		}
		f, err := os.Open(arg)
		if err != nil {
			return document{}, err
		}
		defer f.Close()
		r, conv = f, c
	}

	doc, err := conv.Convert(r, name)
	if err != nil {
		return document{}, fmt.Errorf("%s: %w", name, err)
	}
	recs, err := records.Extract(doc.Markdown)
	if err != nil {
		return document{}, fmt.Errorf("%s: %w", name, err)
	}
	return document{Source: name, Title: doc.Title, Records: recs}, nil
}
