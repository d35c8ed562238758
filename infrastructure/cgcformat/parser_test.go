package cgcformat

import (
	"errors"
	"strings"
	"testing"

	"github.com/helixml/cgc/domain/genecall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prodigalCalls = `# CGC_parser output
# Gene Caller: prodigal
# Order of fields: number strand leftEnd rightEnd length contig
1	+	100	500	401	ctg1
2	-	700	1000	301	ctg1	gp2	terminase small subunit

3	+	5	95		ctg2
`

func TestParse(t *testing.T) {
	set, err := Parse(strings.NewReader(prodigalCalls), "prodigal.cgc")
	require.NoError(t, err)

	assert.Equal(t, "prodigal", set.Caller())
	require.Equal(t, 3, set.Size())

	calls := set.Calls()
	assert.Equal(t, "ctg1", calls[0].Contig())
	assert.Equal(t, 100, calls[0].Start())
	assert.Equal(t, 500, calls[0].End())
	assert.Equal(t, genecall.StrandForward, calls[0].Strand())
	assert.Equal(t, "prodigal_1", calls[0].Label())

	assert.Equal(t, genecall.StrandReverse, calls[1].Strand())
	assert.Equal(t, "gp2", calls[1].Label())
	assert.Equal(t, "terminase small subunit", calls[1].Product())

	assert.Equal(t, "ctg2", calls[2].Contig())
}

func TestParse_FallbackCaller(t *testing.T) {
	set, err := Parse(strings.NewReader("1\t+\t1\t90\t90\tctg1\n"), "calls.txt", WithFallbackCaller("custom"))
	require.NoError(t, err)
	assert.Equal(t, "custom", set.Caller())

	set, err = Parse(strings.NewReader("# caller: glimmer\n1\t+\t1\t90\t90\tctg1\n"), "calls.txt", WithFallbackCaller("custom"))
	require.NoError(t, err)
	assert.Equal(t, "glimmer", set.Caller(), "header wins over fallback")
}

func TestParse_HeaderOnly(t *testing.T) {
	set, err := Parse(strings.NewReader("# Gene Caller: rast\n"), "rast.cgc")
	require.NoError(t, err)
	assert.Equal(t, "rast", set.Caller())
	assert.Equal(t, 0, set.Size())
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{
			name:   "missing header",
			input:  "",
			line:   0,
			reason: "missing gene caller header",
		},
		{
			name:   "call before header",
			input:  "1\t+\t1\t90\t90\tctg1\n",
			line:   1,
			reason: "gene call before gene caller header",
		},
		{
			name:   "start after end",
			input:  "# Gene Caller: a\n1\t+\t1\t90\t90\tctg1\n2\t+\t500\t100\t\tctg1\n",
			line:   3,
			reason: "start 500 is greater than end 100",
		},
		{
			name:   "unknown strand",
			input:  "# Gene Caller: a\n1\t.\t1\t90\t90\tctg1\n",
			line:   2,
			reason: `unknown strand "."`,
		},
		{
			name:   "too few fields",
			input:  "# Gene Caller: a\n1\t+\t1\t90\n",
			line:   2,
			reason: "expected at least 6 tab-separated fields, got 4",
		},
		{
			name:   "non numeric",
			input:  "# Gene Caller: a\n1\t+\tone\t90\t90\tctg1\n",
			line:   2,
			reason: `left end "one" is not an integer`,
		},
		{
			name:   "length mismatch",
			input:  "# Gene Caller: a\n1\t+\t1\t90\t80\tctg1\n",
			line:   2,
			reason: "length 80 does not match coordinates 1..90",
		},
		{
			name:   "header after calls",
			input:  "# Gene Caller: a\n1\t+\t1\t90\t90\tctg1\n# Gene Caller: a\n",
			line:   3,
			reason: "gene caller header after first call",
		},
		{
			name:   "conflicting headers",
			input:  "# Gene Caller: a\n# Gene Caller: b\n",
			line:   2,
			reason: `conflicting gene caller headers "a" and "b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse(strings.NewReader(tt.input), "in.cgc")
			require.Error(t, err)
			assert.Nil(t, set)

			var fe *genecall.FormatError
			require.True(t, errors.As(err, &fe), "got %T: %v", err, err)
			assert.Equal(t, "in.cgc", fe.Source)
			assert.Equal(t, tt.line, fe.Line)
			assert.Equal(t, tt.reason, fe.Reason)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(failingReader{}, "in.cgc")
	require.Error(t, err)

	var fe *genecall.FormatError
	assert.False(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParse_LineTooLong(t *testing.T) {
	in := "# Gene Caller: prodigal\n" +
		"1\t+\t1\t90\t90\tctg1\n" +
		"2\t+\t100\t190\t91\tctg1\t" + strings.Repeat("x", maxLineBytes) + "\n"
	_, err := Parse(strings.NewReader(in), "long.cgc")
	require.Error(t, err)

	var fe *genecall.FormatError
	require.True(t, errors.As(err, &fe), "got %T: %v", err, err)
	assert.Equal(t, "long.cgc", fe.Source)
	assert.Equal(t, 3, fe.Line)
	assert.Contains(t, fe.Reason, "line longer than")
}
