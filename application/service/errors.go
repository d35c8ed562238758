package service

import (
	"errors"
	"fmt"
)

// Configuration sentinels.
var (
	ErrTooFewInputs    = errors.New("at least two input files are required")
	ErrMissingOutput   = errors.New("output destination is required")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConfigurationError reports an invocation problem detected before any
// input is processed.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field == "" {
		return "configuration: " + msg
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, msg)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// IOError reports a failure to open, read or write a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error { return e.Err }
