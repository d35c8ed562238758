package reconcile

import (
	"slices"
	"strings"

	"github.com/helixml/cgc/domain/genecall"
)

// locusKey is the matching key: two calls describe the same gene when they
// share contig, strand and stop coordinate.
type locusKey struct {
	contig string
	strand genecall.Strand
	stop   int
}

func keyOf(c genecall.Call) locusKey {
	return locusKey{contig: c.Contig(), strand: c.Strand(), stop: c.StopCoordinate()}
}

// Locus is a cluster of calls, at most one per caller, that agree on the
// stop coordinate of a gene.
type Locus struct {
	seq     int
	key     locusKey
	members map[string]genecall.Call

	repFree   int
	repCaller string

	agreement  int
	score      float64
	commonCore bool
}

func newLocus(seq int, c genecall.Call) *Locus {
	l := &Locus{
		seq:     seq,
		key:     keyOf(c),
		members: make(map[string]genecall.Call, 1),
	}
	l.add(c)
	return l
}

// RestoreLocus rebuilds a scored locus from its members, e.g. when reading
// a stored run back. All members must share contig, strand and stop
// coordinate and come from distinct callers.
func RestoreLocus(members []genecall.Call, totalCallers int) (*Locus, error) {
	if len(members) == 0 {
		return nil, ErrEmptyLocus
	}
	l := newLocus(0, members[0])
	for _, c := range members[1:] {
		if keyOf(c) != l.key {
			return nil, ErrKeyMismatch
		}
		if l.HasCaller(c.Caller()) {
			return nil, ErrDuplicateMember
		}
		l.add(c)
	}
	if totalCallers < len(l.members) {
		return nil, ErrTooFewCallers
	}
	l.applyScore(totalCallers)
	l.applyCommonCore(totalCallers)
	return l, nil
}

func (l *Locus) clone() *Locus {
	c := *l
	c.members = make(map[string]genecall.Call, len(l.members))
	for caller, m := range l.members {
		c.members[caller] = m
	}
	return &c
}

func (l *Locus) add(c genecall.Call) {
	l.members[c.Caller()] = c
	l.updateRepresentative()
}

// updateRepresentative applies the consensus policy: majority free
// coordinate, ties to the longest call, representative caller is the
// smallest caller id carrying the chosen coordinate.
func (l *Locus) updateRepresentative() {
	counts := make(map[int]int, len(l.members))
	for _, c := range l.members {
		counts[c.FreeCoordinate()]++
	}

	best, bestCount, bestLen := 0, -1, -1
	for free, n := range counts {
		length := l.lengthWithFree(free)
		if n > bestCount || (n == bestCount && length > bestLen) {
			best, bestCount, bestLen = free, n, length
		}
	}
	l.repFree = best

	l.repCaller = ""
	for caller, c := range l.members {
		if c.FreeCoordinate() != best {
			continue
		}
		if l.repCaller == "" || caller < l.repCaller {
			l.repCaller = caller
		}
	}
}

func (l *Locus) lengthWithFree(free int) int {
	if l.key.strand == genecall.StrandReverse {
		return free - l.key.stop + 1
	}
	return l.key.stop - free + 1
}

func (l *Locus) applyScore(totalCallers int) {
	l.agreement = len(l.members)
	if totalCallers > 0 {
		l.score = float64(l.agreement) / float64(totalCallers)
	} else {
		l.score = 0
	}
}

func (l *Locus) applyCommonCore(totalCallers int) {
	l.commonCore = totalCallers > 0 && l.agreement == totalCallers
}

// Contig returns the sequence identifier.
func (l *Locus) Contig() string { return l.key.contig }

// Strand returns the coding strand.
func (l *Locus) Strand() genecall.Strand { return l.key.strand }

// StopCoordinate returns the shared 3' coordinate.
func (l *Locus) StopCoordinate() int { return l.key.stop }

// HasCaller reports whether caller contributed a member.
func (l *Locus) HasCaller(caller string) bool {
	_, ok := l.members[caller]
	return ok
}

// Member returns the call contributed by caller.
func (l *Locus) Member(caller string) (genecall.Call, bool) {
	c, ok := l.members[caller]
	return c, ok
}

// Callers returns the contributing callers in lexical order.
func (l *Locus) Callers() []string {
	callers := make([]string, 0, len(l.members))
	for caller := range l.members {
		callers = append(callers, caller)
	}
	slices.Sort(callers)
	return callers
}

// Members returns the member calls ordered by caller.
func (l *Locus) Members() []genecall.Call {
	callers := l.Callers()
	calls := make([]genecall.Call, len(callers))
	for i, caller := range callers {
		calls[i] = l.members[caller]
	}
	return calls
}

// Size returns the number of member calls.
func (l *Locus) Size() int { return len(l.members) }

// RepresentativeStart returns the left coordinate of the consensus call.
func (l *Locus) RepresentativeStart() int {
	if l.key.strand == genecall.StrandReverse {
		return l.key.stop
	}
	return l.repFree
}

// RepresentativeEnd returns the right coordinate of the consensus call.
func (l *Locus) RepresentativeEnd() int {
	if l.key.strand == genecall.StrandReverse {
		return l.repFree
	}
	return l.key.stop
}

// RepresentativeCaller returns the caller whose call supplied the consensus
// free coordinate.
func (l *Locus) RepresentativeCaller() string { return l.repCaller }

// Representative returns the consensus call for the locus.
func (l *Locus) Representative() genecall.Call {
	rep := l.members[l.repCaller]
	c, err := genecall.Consensus(rep, l.RepresentativeStart(), l.RepresentativeEnd())
	if err != nil {
		// Bounds come from a member of this locus, so they are valid.
		return rep
	}
	return c
}

// AgreementCount returns the number of distinct contributing callers as of
// the last Score pass.
func (l *Locus) AgreementCount() int { return l.agreement }

// Score returns AgreementCount divided by the number of callers in the run.
func (l *Locus) Score() float64 { return l.score }

// IsCommonCore reports whether every caller in the run contributed.
func (l *Locus) IsCommonCore() bool { return l.commonCore }

// CallerList returns the contributing callers joined with commas.
func (l *Locus) CallerList() string { return strings.Join(l.Callers(), ",") }
