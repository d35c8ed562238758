package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/helixml/cgc/domain/reconcile"
)

// WriteUnique lists, per caller, the calls no other caller agreed with.
func WriteUnique(w io.Writer, r reconcile.Result) error {
	bw := bufio.NewWriter(w)
	for _, s := range r.Callers() {
		fmt.Fprintf(bw, "Unique calls for %s: %d\n", s.Name(), s.UniqueCount())
		for _, c := range r.Unique(s.Name()) {
			fmt.Fprintf(bw, "  %s\t%d\t%d\t%s\t%s\n", c.Contig(), c.Start(), c.End(), c.Strand(), c.Label())
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write unique calls: %w", err)
	}
	return nil
}
