package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cgc version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

const inputHelp = `Each input is one gene caller's calls, one call per tab-separated line:

  number  strand  leftEnd  rightEnd  length  contig  [label]  [product]

strand is + or -. leftEnd <= rightEnd, both 1-based. length may be empty,
otherwise it must equal rightEnd - leftEnd + 1. Lines starting with # are
comments; one of them must name the caller:

  # Gene Caller: prodigal

Example:
  cgc compare --superset s.cgc --consensus c.cgc --commoncore cc.cgc genemark.calls prodigal.calls
`

func inputCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "input",
		Short: "Describe the gene call input format",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), inputHelp)
		},
	}
}
