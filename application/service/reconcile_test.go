package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/helixml/cgc/domain/genecall"
	"github.com/helixml/cgc/domain/query"
	"github.com/helixml/cgc/domain/reconcile"
	"github.com/helixml/cgc/infrastructure/persistence"
	"github.com/helixml/cgc/internal/config"
	"github.com/helixml/cgc/internal/log"
	"github.com/helixml/cgc/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callFile(caller string, rows ...string) string {
	return "# Gene Caller: " + caller + "\n" + strings.Join(rows, "\n") + "\n"
}

func workedInputs() []Input {
	return []Input{
		{Name: "a.cgc", Reader: strings.NewReader(callFile("A", "1\t+\t100\t500\t401\tctg1"))},
		{Name: "b.cgc", Reader: strings.NewReader(callFile("B", "1\t+\t97\t500\t404\tctg1"))},
		{Name: "c.cgc", Reader: strings.NewReader(callFile("C", "1\t+\t100\t497\t398\tctg1"))},
	}
}

type sinks struct {
	superset, consensus, core, gff, report, unique bytes.Buffer
}

func (s *sinks) outputs() Outputs {
	return Outputs{
		Superset:   Destination{Name: "superset.cgc", Writer: &s.superset},
		Consensus:  Destination{Name: "consensus.cgc", Writer: &s.consensus},
		CommonCore: Destination{Name: "commoncore.cgc", Writer: &s.core},
		GFF:        Destination{Name: "loci.gff", Writer: &s.gff},
		Report:     Destination{Name: "report.txt", Writer: &s.report},
	}
}

type memRunStore struct {
	saved []reconcile.Result
	err   error
}

func (m *memRunStore) SaveResult(_ context.Context, r reconcile.Result) (reconcile.Run, error) {
	if m.err != nil {
		return reconcile.Run{}, m.err
	}
	m.saved = append(m.saved, r)
	run := reconcile.NewRun(r)
	return reconcile.ReconstructRun(int64(len(m.saved)), run.CreatedAt(), run.Callers(), run.TotalCallers(), run.LocusCount(), run.CommonCoreCount()), nil
}

func (m *memRunStore) Find(context.Context, ...query.Option) ([]reconcile.Run, error) {
	return nil, nil
}

func (m *memRunStore) FindOne(context.Context, ...query.Option) (reconcile.Run, error) {
	return reconcile.Run{}, nil
}

func TestReconciler_Run(t *testing.T) {
	var logBuf bytes.Buffer
	diag := log.NewDiagnostics(
		log.NewLoggerWithWriter(&logBuf, config.LogFormatPlain, "INFO"),
		config.NewVerbosity(true, true, true),
	)
	store := &memRunStore{}
	var s sinks

	result, err := NewReconciler(diag, WithRunStore(store)).Run(context.Background(), workedInputs(), s.outputs())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalLoci())
	assert.Equal(t, 3, result.TotalCallers())
	assert.Equal(t, 0, result.CommonCoreCount())

	assert.Contains(t, s.superset.String(), "ctg1\tsuperset\t97\t500\t0.67\t+\tcallers=A,B\n")
	assert.Contains(t, s.consensus.String(), "representative=B;label=B_1")
	assert.Equal(t, "# CGC common_core\n", s.core.String())
	assert.True(t, strings.HasPrefix(s.gff.String(), "##gff-version 3\n"))
	assert.Contains(t, s.report.String(), "Total loci:  2")
	assert.Contains(t, s.report.String(), "Unique calls for C: 1")

	require.Len(t, store.saved, 1)

	logs := logBuf.String()
	assert.Contains(t, logs, "reading gene calls")
	assert.Contains(t, logs, "wrote superset path=superset.cgc")
	assert.Contains(t, logs, "stored run run_id=1")
	assert.Contains(t, logs, "comparison complete callers=3 loci=2 common_core=0")
	assert.Contains(t, logs, "input=a.cgc")
}

func TestReconciler_SeparateUniqueOutput(t *testing.T) {
	var s sinks
	out := s.outputs()
	out.Unique = Destination{Name: "unique.txt", Writer: &s.unique}

	_, err := NewReconciler(nil).Run(context.Background(), workedInputs(), out)
	require.NoError(t, err)

	assert.NotContains(t, s.report.String(), "Unique calls for")
	assert.Contains(t, s.unique.String(), "Unique calls for C: 1")
}

func TestReconciler_YAMLReport(t *testing.T) {
	var s sinks
	out := s.outputs()
	out.ReportFormat = config.ReportFormatYAML

	_, err := NewReconciler(nil).Run(context.Background(), workedInputs(), out)
	require.NoError(t, err)

	assert.Contains(t, s.report.String(), "total_loci: 2")
}

func TestReconciler_DebugDump(t *testing.T) {
	var logBuf bytes.Buffer
	diag := log.NewDiagnostics(log.NewLoggerWithWriter(&logBuf, config.LogFormatPlain, "DEBUG"), config.Verbosity{})
	var s sinks

	_, err := NewReconciler(diag).Run(context.Background(), workedInputs(), s.outputs())
	require.NoError(t, err)

	assert.Contains(t, logBuf.String(), "DBG locus contig=ctg1 strand=+ start=97 end=500 callers=A,B")
	assert.NotContains(t, logBuf.String(), "reading gene calls", "progress is gated off")
}

func TestReconciler_ConfigurationErrors(t *testing.T) {
	var s sinks

	t.Run("too few inputs", func(t *testing.T) {
		_, err := NewReconciler(nil).Run(context.Background(), workedInputs()[:1], s.outputs())
		var ce *ConfigurationError
		require.True(t, errors.As(err, &ce))
		assert.True(t, errors.Is(err, ErrTooFewInputs))
	})

	t.Run("missing commoncore", func(t *testing.T) {
		out := s.outputs()
		out.CommonCore = Destination{}
		_, err := NewReconciler(nil).Run(context.Background(), workedInputs(), out)
		var ce *ConfigurationError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "commoncore", ce.Field)
		assert.True(t, errors.Is(err, ErrMissingOutput))
	})

	t.Run("duplicate caller", func(t *testing.T) {
		inputs := []Input{
			{Name: "a.cgc", Reader: strings.NewReader(callFile("A", "1\t+\t100\t500\t401\tctg1"))},
			{Name: "again.cgc", Reader: strings.NewReader(callFile("A", "1\t+\t97\t500\t404\tctg1"))},
		}
		_, err := NewReconciler(nil).Run(context.Background(), inputs, s.outputs())
		var ce *ConfigurationError
		require.True(t, errors.As(err, &ce))
		assert.True(t, errors.Is(err, reconcile.ErrDuplicateCaller))
		assert.Contains(t, err.Error(), "a.cgc and again.cgc")
	})
}

func TestReconciler_FormatError(t *testing.T) {
	inputs := workedInputs()
	inputs[1].Reader = strings.NewReader(callFile("B", "1\t+\tabc\t500\t404\tctg1"))
	var s sinks

	_, err := NewReconciler(nil).Run(context.Background(), inputs, s.outputs())
	var fe *genecall.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "b.cgc", fe.Source)
	assert.Equal(t, 2, fe.Line)
	assert.Empty(t, s.superset.String(), "nothing is written after a format error")
}

func TestReconciler_FallbackCaller(t *testing.T) {
	inputs := workedInputs()
	inputs[2] = Input{Name: "c.txt", Caller: "C", Reader: strings.NewReader("1\t+\t100\t497\t398\tctg1\n")}
	var s sinks

	result, err := NewReconciler(nil).Run(context.Background(), inputs, s.outputs())
	require.NoError(t, err)
	assert.Len(t, result.Unique("C"), 1)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("device not ready") }

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReconciler_IOErrors(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		inputs := workedInputs()
		inputs[0].Reader = errReader{}
		var s sinks

		_, err := NewReconciler(nil).Run(context.Background(), inputs, s.outputs())
		var ioe *IOError
		require.True(t, errors.As(err, &ioe))
		assert.Equal(t, "read", ioe.Op)
		assert.Equal(t, "a.cgc", ioe.Path)
	})

	t.Run("write", func(t *testing.T) {
		var s sinks
		out := s.outputs()
		out.Consensus = Destination{Name: "consensus.cgc", Writer: errWriter{}}

		_, err := NewReconciler(nil).Run(context.Background(), workedInputs(), out)
		var ioe *IOError
		require.True(t, errors.As(err, &ioe))
		assert.Equal(t, "write", ioe.Op)
		assert.Equal(t, "consensus.cgc", ioe.Path)
	})
}

func TestReconciler_StoreError(t *testing.T) {
	var s sinks
	boom := errors.New("db down")

	_, err := NewReconciler(nil, WithRunStore(&memRunStore{err: boom})).Run(context.Background(), workedInputs(), s.outputs())
	assert.True(t, errors.Is(err, boom))
}

func TestReconciler_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var s sinks

	_, err := NewReconciler(nil).Run(ctx, workedInputs(), s.outputs())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestReconciler_EmptyInputCountsAsCaller(t *testing.T) {
	var logBuf bytes.Buffer
	diag := log.NewDiagnostics(log.NewLoggerWithWriter(&logBuf, config.LogFormatPlain, "INFO"), config.NewVerbosity(false, false, true))
	inputs := workedInputs()
	inputs = append(inputs, Input{Name: "d.cgc", Reader: strings.NewReader("# Gene Caller: D\n")})
	var s sinks

	result, err := NewReconciler(diag).Run(context.Background(), inputs, s.outputs())
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalCallers())
	assert.Contains(t, s.superset.String(), "0.50")
	assert.Contains(t, logBuf.String(), "WRN input has no gene calls")
}

func TestReconciler_PersistsToDatabase(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	var s sinks

	result, err := NewReconciler(nil, WithRunStore(persistence.NewRunStore(db))).Run(ctx, workedInputs(), s.outputs())
	require.NoError(t, err)

	loci := persistence.NewLocusStore(db)
	n, err := loci.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(result.TotalLoci()), n)

	stored, err := loci.Find(ctx, reconcile.WithOutputOrder()...)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 97, stored[0].Start())
	assert.Equal(t, "B", stored[0].RepresentativeCaller())
	assert.Len(t, stored[0].Members(), 2)
}
