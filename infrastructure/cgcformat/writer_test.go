package cgcformat

import (
	"bytes"
	"errors"
	"testing"

	"github.com/helixml/cgc/domain/genecall"
	"github.com/helixml/cgc/domain/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleResult(t *testing.T) reconcile.Result {
	t.Helper()
	e := reconcile.NewEngine()
	for _, in := range []struct {
		caller     string
		start, end int
	}{
		{"A", 100, 500},
		{"B", 97, 500},
		{"C", 100, 497},
	} {
		set := genecall.NewCallSet(in.caller)
		c, err := genecall.NewCall("ctg1", in.start, in.end, genecall.StrandForward, in.caller)
		require.NoError(t, err)
		require.NoError(t, set.AddCall(c.WithLabel(in.caller+"_1")))
		require.NoError(t, e.Merge(set))
	}
	require.NoError(t, e.Finalize())
	r, err := e.Result()
	require.NoError(t, err)
	return r
}

func TestWriteSuperset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSuperset(&buf, exampleResult(t)))

	assert.Equal(t, "# CGC superset\n"+
		"ctg1\tsuperset\t97\t500\t0.67\t+\tcallers=A,B\n"+
		"ctg1\tsuperset\t100\t497\t0.33\t+\tcallers=C\n", buf.String())
}

func TestWriteConsensus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsensus(&buf, exampleResult(t)))

	assert.Equal(t, "# CGC consensus\n"+
		"ctg1\tconsensus\t97\t500\t0.67\t+\tcallers=A,B;representative=B;label=B_1\n"+
		"ctg1\tconsensus\t100\t497\t0.33\t+\tcallers=C;representative=C;label=C_1\n", buf.String())
}

func TestWriteCommonCore_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCommonCore(&buf, exampleResult(t)))

	assert.Equal(t, "# CGC common_core\n", buf.String())
}

func TestWriteGFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGFF(&buf, exampleResult(t).Superset()))

	assert.Equal(t, "##gff-version 3\n"+
		"ctg1\tCGC\tCDS\t97\t500\t0.67\t+\t.\tID=cgc_locus_1;callers=A,B;agreement=2\n"+
		"ctg1\tCGC\tCDS\t100\t497\t0.33\t+\t.\tID=cgc_locus_2;callers=C;agreement=1\n", buf.String())
}

func TestWriteConsensus_EscapesAttributes(t *testing.T) {
	e := reconcile.NewEngine()
	for _, caller := range []string{"gene;mark", "prodigal"} {
		set := genecall.NewCallSet(caller)
		c, err := genecall.NewCall("ctg1", 10, 90, genecall.StrandForward, caller)
		require.NoError(t, err)
		require.NoError(t, set.AddCall(c.WithLabel("gp1;note=x,y")))
		require.NoError(t, e.Merge(set))
	}
	require.NoError(t, e.Finalize())
	r, err := e.Result()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteConsensus(&buf, r))

	assert.Equal(t, "# CGC consensus\n"+
		"ctg1\tconsensus\t10\t90\t1.00\t+\tcallers=gene%3Bmark,prodigal;representative=gene%3Bmark;label=gp1%3Bnote%3Dx%2Cy\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteRecords_Error(t *testing.T) {
	err := WriteSuperset(failingWriter{}, exampleResult(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
