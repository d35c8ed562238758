// Package report renders human and machine readable summaries of a
// reconciliation result.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/helixml/cgc/domain/reconcile"
)

// WriteText writes one block per caller followed by the aggregate block.
func WriteText(w io.Writer, r reconcile.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "CGC gene call comparison report")
	for _, c := range r.Callers() {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "Caller: %s\n", c.Name())
		fmt.Fprintf(bw, "  Input calls:  %d\n", c.InputCount())
		fmt.Fprintf(bw, "  Unique calls: %d\n", c.UniqueCount())
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Summary")
	fmt.Fprintf(bw, "  Callers:     %d\n", r.TotalCallers())
	fmt.Fprintf(bw, "  Input calls: %d\n", r.TotalInputCalls())
	fmt.Fprintf(bw, "  Total loci:  %d\n", r.TotalLoci())
	fmt.Fprintf(bw, "  Common core: %d\n", r.CommonCoreCount())
	fmt.Fprintln(bw, "  Agreement histogram:")
	for i, n := range r.Histogram() {
		fmt.Fprintf(bw, "    %d of %d callers: %d\n", i+1, r.TotalCallers(), n)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
