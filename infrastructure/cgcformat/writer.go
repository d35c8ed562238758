package cgcformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/helixml/cgc/domain/reconcile"
)

// Kind is the record label written in the second CGC column.
type Kind string

// Kind values.
const (
	KindSuperset   Kind = "superset"
	KindConsensus  Kind = "consensus"
	KindCommonCore Kind = "common_core"
)

// WriteRecords renders one CGC record per locus:
//
//	contig  kind  start  end  score  strand  attributes
//
// Superset records carry the locus's representative bounds; consensus and
// common_core records also name the representative caller and its label.
func WriteRecords(w io.Writer, kind Kind, loci []*reconcile.Locus) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# CGC %s\n", kind)
	for _, l := range loci {
		writeRecord(bw, kind, l)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s records: %w", kind, err)
	}
	return nil
}

// WriteSuperset writes every locus of the result.
func WriteSuperset(w io.Writer, r reconcile.Result) error {
	return WriteRecords(w, KindSuperset, r.Superset())
}

// WriteConsensus writes one representative call per locus.
func WriteConsensus(w io.Writer, r reconcile.Result) error {
	return WriteRecords(w, KindConsensus, r.Superset())
}

// WriteCommonCore writes the loci every caller agreed on.
func WriteCommonCore(w io.Writer, r reconcile.Result) error {
	return WriteRecords(w, KindCommonCore, r.CommonCore())
}

func writeRecord(w *bufio.Writer, kind Kind, l *reconcile.Locus) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%s\t%s\n",
		l.Contig(),
		kind,
		l.RepresentativeStart(),
		l.RepresentativeEnd(),
		l.Score(),
		l.Strand(),
		attributes(kind, l),
	)
}

// attributes escapes values the same way WriteGFF does, so callers and
// labels never break the key=value;key=value layout.
func attributes(kind Kind, l *reconcile.Locus) string {
	callers := l.Callers()
	for i, c := range callers {
		callers[i] = gffEscaper.Replace(c)
	}
	attrs := "callers=" + strings.Join(callers, ",")
	if kind == KindSuperset {
		return attrs
	}
	rep := l.Representative()
	attrs += ";representative=" + gffEscaper.Replace(rep.Caller())
	if rep.Label() != "" {
		attrs += ";label=" + gffEscaper.Replace(rep.Label())
	}
	return attrs
}
