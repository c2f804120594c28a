package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdrecords",
		Short: "mdrecords turns documents into heading, paragraph and code records",
		Long: `mdrecords splits a markdown document into an ordered list of headings,
paragraphs and code blocks, each carrying its heading hierarchy and the
anchor of the nearest heading.

Usage:
  mdrecords extract [file...] [flags]`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCmd())
	return root
}
