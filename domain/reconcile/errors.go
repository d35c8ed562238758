package reconcile

import "errors"

// Engine and locus errors.
var (
	ErrDuplicateCaller = errors.New("caller already merged")
	ErrEmptyCaller     = errors.New("call set has no caller")
	ErrNotCompared     = errors.New("loci changed since the last compare pass")
	ErrNotScored       = errors.New("loci changed since the last score pass")
	ErrNotClassified   = errors.New("common core not identified since the last score pass")
	ErrEmptyLocus      = errors.New("locus has no members")
	ErrKeyMismatch     = errors.New("locus members disagree on contig, strand or stop coordinate")
	ErrDuplicateMember = errors.New("caller contributes more than one member to a locus")
	ErrTooFewCallers   = errors.New("total callers is smaller than locus agreement")
	ErrStoredMismatch  = errors.New("stored locus disagrees with its members")
)
