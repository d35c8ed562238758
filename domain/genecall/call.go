// Package genecall provides the per-caller gene call types fed into reconciliation.
package genecall

// Call is one predicted gene from one caller. Immutable value object;
// construct with NewCall.
type Call struct {
	contig  string
	start   int
	end     int
	strand  Strand
	caller  string
	label   string
	product string
}

// NewCall validates its arguments and builds a Call. Coordinates are
// 1-based and inclusive.
func NewCall(contig string, start, end int, strand Strand, caller string) (Call, error) {
	c := Call{
		contig: contig,
		start:  start,
		end:    end,
		strand: strand,
		caller: caller,
	}
	if err := c.validate(); err != nil {
		return Call{}, err
	}
	return c, nil
}

// WithLabel returns a copy of the call carrying the caller-native gene id.
func (c Call) WithLabel(label string) Call {
	c.label = label
	return c
}

// WithProduct returns a copy of the call carrying a product description.
func (c Call) WithProduct(product string) Call {
	c.product = product
	return c
}

// withCoordinates returns a copy with new bounds. Used for consensus calls,
// whose bounds come from the locus rather than a single caller.
func (c Call) withCoordinates(start, end int) Call {
	c.start = start
	c.end = end
	return c
}

// Consensus builds a call attributed to rep's caller with the given bounds.
func Consensus(rep Call, start, end int) (Call, error) {
	c := rep.withCoordinates(start, end)
	if err := c.validate(); err != nil {
		return Call{}, err
	}
	return c, nil
}

func (c Call) validate() error {
	switch {
	case c.contig == "":
		return formatErrorf("empty contig")
	case c.caller == "":
		return formatErrorf("empty caller")
	case !c.strand.IsValid():
		return formatErrorf("unknown strand %q", string(c.strand))
	case c.start < 1:
		return formatErrorf("start %d is not a 1-based coordinate", c.start)
	case c.start > c.end:
		return formatErrorf("start %d is greater than end %d", c.start, c.end)
	}
	return nil
}

// Contig returns the sequence identifier.
func (c Call) Contig() string { return c.contig }

// Start returns the 1-based left coordinate.
func (c Call) Start() int { return c.start }

// End returns the 1-based right coordinate (inclusive).
func (c Call) End() int { return c.end }

// Strand returns the coding strand.
func (c Call) Strand() Strand { return c.strand }

// Caller returns the producing program's identifier.
func (c Call) Caller() string { return c.caller }

// Label returns the caller-native gene id, if any.
func (c Call) Label() string { return c.label }

// Product returns the product description, if any.
func (c Call) Product() string { return c.product }

// Length returns the number of bases covered.
func (c Call) Length() int { return c.end - c.start + 1 }

// StopCoordinate returns the 3' boundary: end on the forward strand,
// start on the reverse strand.
func (c Call) StopCoordinate() int {
	if c.strand == StrandReverse {
		return c.start
	}
	return c.end
}

// FreeCoordinate returns the 5' boundary, the one callers disagree on
// when they pick different start codons.
func (c Call) FreeCoordinate() int {
	if c.strand == StrandReverse {
		return c.end
	}
	return c.start
}

// IsZero reports whether c is the zero Call.
func (c Call) IsZero() bool { return c.caller == "" && c.contig == "" }

// ReconstructCall recreates a Call from persistence without validation.
func ReconstructCall(contig string, start, end int, strand Strand, caller, label, product string) Call {
	return Call{
		contig:  contig,
		start:   start,
		end:     end,
		strand:  strand,
		caller:  caller,
		label:   label,
		product: product,
	}
}
