package genecall

import (
	"cmp"
	"slices"
)

// CallSet is the ordered list of calls produced by one caller.
type CallSet struct {
	caller string
	calls  []Call
}

// NewCallSet creates an empty set for the named caller.
func NewCallSet(caller string) *CallSet {
	return &CallSet{caller: caller}
}

// Caller returns the caller that owns the set.
func (s *CallSet) Caller() string { return s.caller }

// AddCall appends a call. Calls from another caller and zero-value calls
// are rejected with a *FormatError.
func (s *CallSet) AddCall(c Call) error {
	if c.IsZero() {
		return formatErrorf("empty gene call")
	}
	if err := c.validate(); err != nil {
		return err
	}
	if c.caller != s.caller {
		return formatErrorf("call from caller %q added to call set of %q", c.caller, s.caller)
	}
	s.calls = append(s.calls, c)
	return nil
}

// Sort orders calls by contig, then start, then end. The sort is stable so
// repeated sorting is a no-op.
func (s *CallSet) Sort() {
	slices.SortStableFunc(s.calls, CompareCalls)
}

// Size returns the number of calls.
func (s *CallSet) Size() int { return len(s.calls) }

// Calls returns a copy of the calls in their current order.
func (s *CallSet) Calls() []Call {
	return slices.Clone(s.calls)
}

// Sorted returns a sorted copy of the calls without reordering the set.
func (s *CallSet) Sorted() []Call {
	calls := slices.Clone(s.calls)
	slices.SortStableFunc(calls, CompareCalls)
	return calls
}

// CompareCalls orders calls by (contig, start, end).
func CompareCalls(a, b Call) int {
	return cmp.Or(
		cmp.Compare(a.contig, b.contig),
		cmp.Compare(a.start, b.start),
		cmp.Compare(a.end, b.end),
	)
}
