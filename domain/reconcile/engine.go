// Package reconcile merges per-caller gene calls into loci, scores caller
// agreement and derives the consensus and common-core gene sets.
package reconcile

import (
	"fmt"

	"github.com/helixml/cgc/domain/genecall"
)

type stage int

const (
	stageMerged stage = iota
	stageCompared
	stageScored
	stageClassified
)

// Engine accumulates loci across call sets. It is not safe for concurrent
// use.
type Engine struct {
	loci    []*Locus
	index   map[locusKey][]*Locus
	callers []string
	inputs  map[string]int

	totalCallers int
	stage        stage
}

// NewEngine returns an engine with no loci.
func NewEngine() *Engine {
	return &Engine{
		index:  make(map[locusKey][]*Locus),
		inputs: make(map[string]int),
	}
}

// Merge folds one caller's calls into the running loci. Each caller may be
// merged once. The set itself is not modified.
func (e *Engine) Merge(set *genecall.CallSet) error {
	caller := set.Caller()
	if caller == "" {
		return ErrEmptyCaller
	}
	if _, ok := e.inputs[caller]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCaller, caller)
	}
	e.callers = append(e.callers, caller)
	e.inputs[caller] = set.Size()
	e.stage = stageMerged

	for _, c := range set.Sorted() {
		e.place(c)
	}
	return nil
}

// place adds c to the first locus with its key that lacks c's caller, or
// opens a new locus.
func (e *Engine) place(c genecall.Call) {
	key := keyOf(c)
	for _, l := range e.index[key] {
		if !l.HasCaller(c.Caller()) {
			l.add(c)
			return
		}
	}
	l := newLocus(len(e.loci), c)
	e.loci = append(e.loci, l)
	e.index[key] = append(e.index[key], l)
}

// Compare fixes the caller count used as the score denominator and checks
// that every locus member sits under its own caller's key.
func (e *Engine) Compare() error {
	e.totalCallers = len(e.callers)
	for _, l := range e.loci {
		for caller, c := range l.members {
			if c.Caller() != caller {
				return fmt.Errorf("%w: %s", ErrDuplicateMember, caller)
			}
			if keyOf(c) != l.key {
				return ErrKeyMismatch
			}
		}
	}
	if e.stage < stageCompared {
		e.stage = stageCompared
	}
	return nil
}

// Score sets agreement count and score on every locus.
func (e *Engine) Score() error {
	if e.stage < stageCompared {
		return ErrNotCompared
	}
	for _, l := range e.loci {
		l.applyScore(e.totalCallers)
	}
	if e.stage < stageScored {
		e.stage = stageScored
	}
	return nil
}

// IdentifyCommonCore flags loci that every caller contributed to.
func (e *Engine) IdentifyCommonCore() error {
	if e.stage < stageScored {
		return ErrNotScored
	}
	for _, l := range e.loci {
		l.applyCommonCore(e.totalCallers)
	}
	e.stage = stageClassified
	return nil
}

// Finalize runs Compare, Score and IdentifyCommonCore in order.
func (e *Engine) Finalize() error {
	if err := e.Compare(); err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	if err := e.Score(); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	if err := e.IdentifyCommonCore(); err != nil {
		return fmt.Errorf("identify common core: %w", err)
	}
	return nil
}

// Loci returns the loci in creation order.
func (e *Engine) Loci() []*Locus {
	loci := make([]*Locus, len(e.loci))
	copy(loci, e.loci)
	return loci
}

// Callers returns the merged callers in merge order.
func (e *Engine) Callers() []string {
	callers := make([]string, len(e.callers))
	copy(callers, e.callers)
	return callers
}

// TotalCallers returns the caller count fixed by the last Compare pass.
func (e *Engine) TotalCallers() int { return e.totalCallers }

// Result snapshots the classified loci.
func (e *Engine) Result() (Result, error) {
	switch {
	case e.stage < stageCompared:
		return Result{}, ErrNotCompared
	case e.stage < stageScored:
		return Result{}, ErrNotScored
	case e.stage < stageClassified:
		return Result{}, ErrNotClassified
	}
	return newResult(e.loci, e.callers, e.inputs, e.totalCallers), nil
}
