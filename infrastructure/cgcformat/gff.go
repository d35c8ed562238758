package cgcformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/helixml/cgc/domain/reconcile"
)

const (
	gffSource = "CGC"
	gffType   = "CDS"
)

// GFF3 reserves these characters inside attribute values.
var gffEscaper = strings.NewReplacer(
	"%", "%25",
	";", "%3B",
	"=", "%3D",
	"&", "%26",
	",", "%2C",
	"\t", "%09",
	"\n", "%0A",
)

// WriteGFF renders loci as GFF3 CDS features with agreement scores.
func WriteGFF(w io.Writer, loci []*reconcile.Locus) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("##gff-version 3\n")
	for i, l := range loci {
		callers := l.Callers()
		for j, c := range callers {
			callers[j] = gffEscaper.Replace(c)
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\t%.2f\t%s\t.\tID=cgc_locus_%d;callers=%s;agreement=%d\n",
			l.Contig(),
			gffSource,
			gffType,
			l.RepresentativeStart(),
			l.RepresentativeEnd(),
			l.Score(),
			l.Strand(),
			i+1,
			strings.Join(callers, ","),
			l.AgreementCount(),
		)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write gff: %w", err)
	}
	return nil
}
