package service

import (
	"context"
	"fmt"

	"github.com/helixml/cgc/domain/query"
	"github.com/helixml/cgc/domain/reconcile"
)

// RunQuery reads stored runs back from a RunStore and LocusStore.
type RunQuery struct {
	runs reconcile.RunStore
	loci reconcile.LocusStore
}

// NewRunQuery creates a RunQuery.
func NewRunQuery(runs reconcile.RunStore, loci reconcile.LocusStore) *RunQuery {
	return &RunQuery{runs: runs, loci: loci}
}

// LocusFilter narrows the loci of a stored run.
type LocusFilter struct {
	CommonCore bool
	Contig     string
}

func (f LocusFilter) options(runID int64) []query.Option {
	opts := []query.Option{reconcile.WithRunID(runID)}
	if f.CommonCore {
		opts = append(opts, reconcile.WithCommonCore())
	}
	if f.Contig != "" {
		opts = append(opts, reconcile.WithContig(f.Contig))
	}
	return opts
}

// List returns stored runs, newest first. A limit of zero or less returns
// every run.
func (q *RunQuery) List(ctx context.Context, limit int) ([]reconcile.Run, error) {
	opts := []query.Option{query.WithOrderDesc("id")}
	if limit > 0 {
		opts = append(opts, query.WithLimit(limit))
	}
	runs, err := q.runs.Find(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Show returns a stored run and its matching loci in output order, rebuilt
// from their members.
func (q *RunQuery) Show(ctx context.Context, runID int64, f LocusFilter) (reconcile.Run, []*reconcile.Locus, error) {
	run, err := q.runs.FindOne(ctx, query.WithID(runID))
	if err != nil {
		return reconcile.Run{}, nil, fmt.Errorf("find run %d: %w", runID, err)
	}

	stored, err := q.loci.Find(ctx, append(f.options(runID), reconcile.WithOutputOrder()...)...)
	if err != nil {
		return reconcile.Run{}, nil, fmt.Errorf("find loci of run %d: %w", runID, err)
	}

	loci := make([]*reconcile.Locus, 0, len(stored))
	for _, s := range stored {
		l, err := s.Locus(run.TotalCallers())
		if err != nil {
			return reconcile.Run{}, nil, fmt.Errorf("run %d: %w", runID, err)
		}
		loci = append(loci, l)
	}
	return run, loci, nil
}

// Count returns how many loci of a stored run match f.
func (q *RunQuery) Count(ctx context.Context, runID int64, f LocusFilter) (int64, error) {
	n, err := q.loci.Count(ctx, f.options(runID)...)
	if err != nil {
		return 0, fmt.Errorf("count loci of run %d: %w", runID, err)
	}
	return n, nil
}
