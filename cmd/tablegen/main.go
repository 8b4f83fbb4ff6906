// Command tablegen writes synthetic HTML tables for trying out tabfilter on
// large or irregular documents.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tabfilter/internal/ingest"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var (
		g   ingest.GenSpec
		out string
	)
	cmd := &cobra.Command{
		Use:          "tablegen",
		Short:        "Generate a random HTML table",
		Example:      "  tablegen --rows 5000 --columns 6 --cardinality 12 | tabfilter export --format table --select 0=c0-v3",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				bw := bufio.NewWriter(f)
				defer bw.Flush()
				w = bw
			}
			if err := ingest.Generate(w, g); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "generated %d rows x %d columns -> %s\n", g.Rows, g.Columns, out)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&g.Rows, "rows", 100, "number of body rows")
	fs.IntVar(&g.Columns, "columns", 4, "number of columns")
	fs.IntVar(&g.Cardinality, "cardinality", 5, "distinct values per column")
	fs.IntVar(&g.Sections, "sections", 1, "number of tbody sections")
	fs.IntVar(&g.ShortEvery, "short-every", 0, "make every n-th row one cell short (0 = never)")
	fs.Int64Var(&g.Seed, "seed", 0, "random seed (0 = fixed default)")
	fs.StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
