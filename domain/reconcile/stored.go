package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/helixml/cgc/domain/genecall"
	"github.com/helixml/cgc/domain/query"
)

// Run describes one stored reconciliation.
type Run struct {
	id              int64
	createdAt       time.Time
	callers         []string
	totalCallers    int
	locusCount      int
	commonCoreCount int
}

// NewRun summarises r for storage.
func NewRun(r Result) Run {
	callers := make([]string, 0, len(r.callers))
	for _, c := range r.callers {
		callers = append(callers, c.name)
	}
	return Run{
		callers:         callers,
		totalCallers:    r.totalCallers,
		locusCount:      len(r.superset),
		commonCoreCount: len(r.commonCore),
	}
}

// ReconstructRun recreates a Run from persistence.
func ReconstructRun(id int64, createdAt time.Time, callers []string, totalCallers, locusCount, commonCoreCount int) Run {
	return Run{
		id:              id,
		createdAt:       createdAt,
		callers:         callers,
		totalCallers:    totalCallers,
		locusCount:      locusCount,
		commonCoreCount: commonCoreCount,
	}
}

// ID returns the database identifier.
func (r Run) ID() int64 { return r.id }

// CreatedAt returns when the run was stored.
func (r Run) CreatedAt() time.Time { return r.createdAt }

// Callers returns the callers in merge order.
func (r Run) Callers() []string {
	out := make([]string, len(r.callers))
	copy(out, r.callers)
	return out
}

// TotalCallers returns the number of callers in the run.
func (r Run) TotalCallers() int { return r.totalCallers }

// LocusCount returns the superset size.
func (r Run) LocusCount() int { return r.locusCount }

// CommonCoreCount returns the common-core size.
func (r Run) CommonCoreCount() int { return r.commonCoreCount }

// StoredLocus is a locus read back from persistence, with the derived
// values as they were stored.
type StoredLocus struct {
	id                   int64
	runID                int64
	contig               string
	strand               genecall.Strand
	start                int
	end                  int
	agreement            int
	score                float64
	commonCore           bool
	representativeCaller string
	members              []genecall.Call
}

// ReconstructStoredLocus recreates a StoredLocus from persistence.
func ReconstructStoredLocus(
	id, runID int64,
	contig string,
	strand genecall.Strand,
	start, end, agreement int,
	score float64,
	commonCore bool,
	representativeCaller string,
	members []genecall.Call,
) StoredLocus {
	return StoredLocus{
		id:                   id,
		runID:                runID,
		contig:               contig,
		strand:               strand,
		start:                start,
		end:                  end,
		agreement:            agreement,
		score:                score,
		commonCore:           commonCore,
		representativeCaller: representativeCaller,
		members:              members,
	}
}

// ID returns the database identifier.
func (s StoredLocus) ID() int64 { return s.id }

// RunID returns the owning run's identifier.
func (s StoredLocus) RunID() int64 { return s.runID }

// Contig returns the sequence identifier.
func (s StoredLocus) Contig() string { return s.contig }

// Strand returns the coding strand.
func (s StoredLocus) Strand() genecall.Strand { return s.strand }

// Start returns the representative start.
func (s StoredLocus) Start() int { return s.start }

// End returns the representative end.
func (s StoredLocus) End() int { return s.end }

// AgreementCount returns the stored agreement.
func (s StoredLocus) AgreementCount() int { return s.agreement }

// Score returns the stored score.
func (s StoredLocus) Score() float64 { return s.score }

// IsCommonCore returns the stored classification.
func (s StoredLocus) IsCommonCore() bool { return s.commonCore }

// RepresentativeCaller returns the stored representative caller.
func (s StoredLocus) RepresentativeCaller() string { return s.representativeCaller }

// Members returns the member calls.
func (s StoredLocus) Members() []genecall.Call {
	out := make([]genecall.Call, len(s.members))
	copy(out, s.members)
	return out
}

// Locus rebuilds and rescores the locus from its members. The rebuilt
// representative, agreement and classification must match what was stored.
func (s StoredLocus) Locus(totalCallers int) (*Locus, error) {
	l, err := RestoreLocus(s.members, totalCallers)
	if err != nil {
		return nil, err
	}
	if l.Contig() != s.contig ||
		l.Strand() != s.strand ||
		l.RepresentativeStart() != s.start ||
		l.RepresentativeEnd() != s.end ||
		l.AgreementCount() != s.agreement ||
		l.IsCommonCore() != s.commonCore ||
		l.RepresentativeCaller() != s.representativeCaller {
		return nil, fmt.Errorf("locus %d: %w", s.id, ErrStoredMismatch)
	}
	return l, nil
}

// RunStore persists reconciliation runs.
type RunStore interface {
	SaveResult(ctx context.Context, r Result) (Run, error)
	Find(ctx context.Context, options ...query.Option) ([]Run, error)
	FindOne(ctx context.Context, options ...query.Option) (Run, error)
}

// LocusStore reads stored loci.
type LocusStore interface {
	Find(ctx context.Context, options ...query.Option) ([]StoredLocus, error)
	Count(ctx context.Context, options ...query.Option) (int64, error)
}

// WithRunID filters by the "run_id" column.
func WithRunID(id int64) query.Option {
	return query.WithCondition("run_id", id)
}

// WithContig filters by the "contig" column.
func WithContig(contig string) query.Option {
	return query.WithCondition("contig", contig)
}

// WithCommonCore filters common-core loci.
func WithCommonCore() query.Option {
	return query.WithCondition("common_core", true)
}

// WithOutputOrder orders loci the way result output does.
func WithOutputOrder() []query.Option {
	return []query.Option{
		query.WithOrderAsc("contig"),
		query.WithOrderAsc("start_pos"),
		query.WithOrderAsc("end_pos"),
		query.WithOrderAsc("strand"),
		query.WithOrderAsc("callers"),
		query.WithOrderAsc("id"),
	}
}
