package genecall

import (
	"errors"
	"fmt"
)

// ErrInvalidCall is the sentinel wrapped by every FormatError.
var ErrInvalidCall = errors.New("invalid gene call")

// FormatError reports an input record that violates the Call invariants.
// Source and Line are empty/zero when the call was built in memory.
type FormatError struct {
	Source string
	Line   int
	Reason string
}

// Error implements error.
func (e *FormatError) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	case e.Source != "":
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	default:
		return e.Reason
	}
}

// Unwrap lets errors.Is match ErrInvalidCall.
func (e *FormatError) Unwrap() error { return ErrInvalidCall }

// At returns a copy of the error located at the given source and line.
func (e *FormatError) At(source string, line int) *FormatError {
	located := *e
	located.Source = source
	located.Line = line
	return &located
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
