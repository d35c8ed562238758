package reconcile

import (
	"cmp"
	"slices"
	"strings"

	"github.com/helixml/cgc/domain/genecall"
)

// CallerSummary holds per-caller counts for reporting.
type CallerSummary struct {
	name   string
	input  int
	unique int
}

// NewCallerSummary creates a CallerSummary.
func NewCallerSummary(name string, input, unique int) CallerSummary {
	return CallerSummary{name: name, input: input, unique: unique}
}

// Name returns the caller identifier.
func (s CallerSummary) Name() string { return s.name }

// InputCount returns the number of calls the caller supplied.
func (s CallerSummary) InputCount() int { return s.input }

// UniqueCount returns the number of calls no other caller agreed with.
func (s CallerSummary) UniqueCount() int { return s.unique }

// Result is the read-only outcome of a reconciliation.
type Result struct {
	superset     []*Locus
	commonCore   []*Locus
	unique       map[string][]genecall.Call
	callers      []CallerSummary
	totalCallers int
	histogram    []int
}

func newResult(loci []*Locus, callers []string, inputs map[string]int, totalCallers int) Result {
	superset := make([]*Locus, len(loci))
	for i, l := range loci {
		superset[i] = l.clone()
	}
	SortLoci(superset)

	r := Result{
		superset:     superset,
		unique:       make(map[string][]genecall.Call, len(callers)),
		totalCallers: totalCallers,
		histogram:    make([]int, totalCallers),
	}
	for _, l := range superset {
		if l.commonCore {
			r.commonCore = append(r.commonCore, l)
		}
		if l.agreement >= 1 && l.agreement <= totalCallers {
			r.histogram[l.agreement-1]++
		}
		if l.agreement == 1 {
			c := l.members[l.repCaller]
			r.unique[c.Caller()] = append(r.unique[c.Caller()], c)
		}
	}
	for _, name := range callers {
		r.callers = append(r.callers, NewCallerSummary(name, inputs[name], len(r.unique[name])))
	}
	return r
}

// SortLoci orders loci by contig, representative start and end, strand and
// contributing callers.
func SortLoci(loci []*Locus) {
	slices.SortStableFunc(loci, func(a, b *Locus) int {
		return cmp.Or(
			cmp.Compare(a.Contig(), b.Contig()),
			cmp.Compare(a.RepresentativeStart(), b.RepresentativeStart()),
			cmp.Compare(a.RepresentativeEnd(), b.RepresentativeEnd()),
			cmp.Compare(a.Strand(), b.Strand()),
			strings.Compare(a.CallerList(), b.CallerList()),
			cmp.Compare(a.seq, b.seq),
		)
	})
}

// Superset returns every locus in output order.
func (r Result) Superset() []*Locus { return slices.Clone(r.superset) }

// CommonCore returns the loci every caller agreed on, in output order.
func (r Result) CommonCore() []*Locus { return slices.Clone(r.commonCore) }

// Consensus returns one representative call per locus, in output order.
func (r Result) Consensus() []genecall.Call {
	calls := make([]genecall.Call, len(r.superset))
	for i, l := range r.superset {
		calls[i] = l.Representative()
	}
	return calls
}

// Unique returns the calls from caller that no other caller agreed with.
func (r Result) Unique(caller string) []genecall.Call {
	return slices.Clone(r.unique[caller])
}

// Callers returns the per-caller summaries in merge order.
func (r Result) Callers() []CallerSummary { return slices.Clone(r.callers) }

// TotalCallers returns the number of callers in the run.
func (r Result) TotalCallers() int { return r.totalCallers }

// TotalLoci returns the superset size.
func (r Result) TotalLoci() int { return len(r.superset) }

// CommonCoreCount returns the common-core size.
func (r Result) CommonCoreCount() int { return len(r.commonCore) }

// TotalInputCalls returns the sum of the callers' input counts.
func (r Result) TotalInputCalls() int {
	total := 0
	for _, c := range r.callers {
		total += c.input
	}
	return total
}

// Histogram returns locus counts by agreement; index k-1 counts loci with
// agreement k.
func (r Result) Histogram() []int { return slices.Clone(r.histogram) }
