package genecall

import "fmt"

// Strand is the coding strand of a call.
type Strand string

// Strand values.
const (
	StrandForward Strand = "+"
	StrandReverse Strand = "-"
)

// ParseStrand parses "+" or "-". The words "forward"/"reverse" are
// accepted too since some callers spell the strand out.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+", "forward", "Forward", "F":
		return StrandForward, nil
	case "-", "reverse", "Reverse", "R":
		return StrandReverse, nil
	default:
		return "", fmt.Errorf("unknown strand %q", s)
	}
}

// IsValid reports whether s is one of the two strands.
func (s Strand) IsValid() bool {
	return s == StrandForward || s == StrandReverse
}

// String returns the strand symbol.
func (s Strand) String() string { return string(s) }
