package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/helixml/cgc/domain/genecall"
	"github.com/helixml/cgc/domain/reconcile"
	"github.com/helixml/cgc/infrastructure/cgcformat"
	"github.com/helixml/cgc/infrastructure/report"
	"github.com/helixml/cgc/internal/config"
	"github.com/helixml/cgc/internal/log"
)

// Input is one caller's call file.
type Input struct {
	// Name identifies the input in errors and logs, usually its path.
	Name string
	// Caller is used when the file carries no gene caller header.
	Caller string
	Reader io.Reader
}

// Destination is a named output stream. The zero value is unset.
type Destination struct {
	Name   string
	Writer io.Writer
}

// IsSet reports whether the destination has a writer.
func (d Destination) IsSet() bool { return d.Writer != nil }

// Outputs names where a run writes its results. Superset, Consensus and
// CommonCore are required. When Unique is unset the unique lists are
// appended to Report.
type Outputs struct {
	Superset     Destination
	Consensus    Destination
	CommonCore   Destination
	GFF          Destination
	Report       Destination
	Unique       Destination
	ReportFormat config.ReportFormat
}

func (o Outputs) validate() error {
	required := []struct {
		field string
		dest  Destination
	}{
		{"superset", o.Superset},
		{"consensus", o.Consensus},
		{"commoncore", o.CommonCore},
	}
	for _, r := range required {
		if !r.dest.IsSet() {
			return &ConfigurationError{Field: r.field, Err: ErrMissingOutput}
		}
	}
	return nil
}

// Reconciler drives one comparison run from input readers to output writers.
type Reconciler struct {
	diag *log.Diagnostics
	runs reconcile.RunStore
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithRunStore stores every successful run.
func WithRunStore(s reconcile.RunStore) ReconcilerOption {
	return func(r *Reconciler) { r.runs = s }
}

// NewReconciler creates a Reconciler reporting through diag.
func NewReconciler(diag *log.Diagnostics, opts ...ReconcilerOption) *Reconciler {
	if diag == nil {
		diag = log.NewDiagnostics(nil, config.Verbosity{})
	}
	r := &Reconciler{diag: diag}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run parses every input, reconciles the call sets and writes the outputs.
// Errors are *ConfigurationError, *genecall.FormatError, *IOError, or a
// context or storage error.
func (r *Reconciler) Run(ctx context.Context, inputs []Input, out Outputs) (reconcile.Result, error) {
	if len(inputs) < 2 {
		return reconcile.Result{}, &ConfigurationError{
			Field:  "inputs",
			Reason: fmt.Sprintf("got %d, %v", len(inputs), ErrTooFewInputs),
			Err:    ErrTooFewInputs,
		}
	}
	if err := out.validate(); err != nil {
		return reconcile.Result{}, err
	}

	r.diag.Progress(ctx, "reading gene calls", "inputs", len(inputs))
	sets, err := r.parse(ctx, inputs)
	if err != nil {
		return reconcile.Result{}, err
	}

	r.diag.Progress(ctx, "merging gene calls", "callers", len(sets))
	engine := reconcile.NewEngine()
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return reconcile.Result{}, err
		}
		if err := engine.Merge(set); err != nil {
			return reconcile.Result{}, fmt.Errorf("merge %s: %w", set.Caller(), err)
		}
		r.diag.Message(ctx, "merged caller", "caller", set.Caller(), "loci", len(engine.Loci()))
	}

	if err := ctx.Err(); err != nil {
		return reconcile.Result{}, err
	}
	r.diag.Progress(ctx, "comparing and scoring loci")
	if err := engine.Finalize(); err != nil {
		return reconcile.Result{}, err
	}
	result, err := engine.Result()
	if err != nil {
		return reconcile.Result{}, err
	}
	r.dumpLoci(ctx, result)

	if err := ctx.Err(); err != nil {
		return reconcile.Result{}, err
	}
	r.diag.Progress(ctx, "writing outputs")
	if err := r.write(ctx, result, out); err != nil {
		return reconcile.Result{}, err
	}

	if r.runs != nil {
		run, err := r.runs.SaveResult(ctx, result)
		if err != nil {
			return reconcile.Result{}, fmt.Errorf("save run: %w", err)
		}
		r.diag.Record(ctx, "stored run", "run_id", run.ID())
	}

	r.diag.Record(ctx, "comparison complete",
		"callers", result.TotalCallers(),
		"loci", result.TotalLoci(),
		"common_core", result.CommonCoreCount(),
	)
	return result, nil
}

func (r *Reconciler) parse(ctx context.Context, inputs []Input) ([]*genecall.CallSet, error) {
	sets := make([]*genecall.CallSet, 0, len(inputs))
	seen := make(map[string]string, len(inputs))

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inCtx := log.WithInput(ctx, in.Name)

		set, err := cgcformat.Parse(in.Reader, in.Name, cgcformat.WithFallbackCaller(in.Caller))
		if err != nil {
			var fe *genecall.FormatError
			if errors.As(err, &fe) {
				return nil, err
			}
			return nil, &IOError{Op: "read", Path: in.Name, Err: err}
		}

		if prev, dup := seen[set.Caller()]; dup {
			return nil, &ConfigurationError{
				Field:  "inputs",
				Reason: fmt.Sprintf("gene caller %q named by both %s and %s", set.Caller(), prev, in.Name),
				Err:    reconcile.ErrDuplicateCaller,
			}
		}
		seen[set.Caller()] = in.Name

		set.Sort()
		if set.Size() == 0 {
			r.diag.Warning(inCtx, "input has no gene calls", "caller", set.Caller())
		}
		r.diag.Message(inCtx, "read gene calls", "caller", set.Caller(), "calls", set.Size())
		sets = append(sets, set)
	}
	return sets, nil
}

func (r *Reconciler) dumpLoci(ctx context.Context, result reconcile.Result) {
	if !r.diag.DebugEnabled(ctx) {
		return
	}
	for _, l := range result.Superset() {
		r.diag.Debug(ctx, "locus",
			"contig", l.Contig(),
			"strand", l.Strand().String(),
			"start", l.RepresentativeStart(),
			"end", l.RepresentativeEnd(),
			"callers", l.CallerList(),
			"score", l.Score(),
		)
	}
	for _, l := range result.CommonCore() {
		r.diag.Debug(ctx, "common core locus",
			"contig", l.Contig(),
			"strand", l.Strand().String(),
			"start", l.RepresentativeStart(),
			"end", l.RepresentativeEnd(),
		)
	}
}

func (r *Reconciler) write(ctx context.Context, result reconcile.Result, out Outputs) error {
	steps := []struct {
		what  string
		dest  Destination
		write func(io.Writer) error
	}{
		{"superset", out.Superset, func(w io.Writer) error { return cgcformat.WriteSuperset(w, result) }},
		{"consensus", out.Consensus, func(w io.Writer) error { return cgcformat.WriteConsensus(w, result) }},
		{"common core", out.CommonCore, func(w io.Writer) error { return cgcformat.WriteCommonCore(w, result) }},
		{"gff", out.GFF, func(w io.Writer) error { return cgcformat.WriteGFF(w, result.Superset()) }},
		{"report", out.Report, func(w io.Writer) error { return writeReport(w, result, out) }},
		{"unique calls", out.Unique, func(w io.Writer) error { return report.WriteUnique(w, result) }},
	}

	for _, s := range steps {
		if !s.dest.IsSet() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.write(s.dest.Writer); err != nil {
			return &IOError{Op: "write", Path: s.dest.Name, Err: err}
		}
		r.diag.Record(ctx, "wrote "+s.what, "path", s.dest.Name)
	}
	return nil
}

func writeReport(w io.Writer, result reconcile.Result, out Outputs) error {
	appendUnique := !out.Unique.IsSet()
	if out.ReportFormat == config.ReportFormatYAML {
		return report.WriteYAML(w, result, appendUnique)
	}
	if err := report.WriteText(w, result); err != nil {
		return err
	}
	if appendUnique {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return report.WriteUnique(w, result)
	}
	return nil
}
