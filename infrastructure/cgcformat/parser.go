// Package cgcformat reads normalized gene call files and writes CGC and
// GFF3 records.
package cgcformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/helixml/cgc/domain/genecall"
)

// Column positions in a normalized call line.
const (
	colNumber = iota
	colStrand
	colLeft
	colRight
	colLength
	colContig
	colLabel
	colProduct

	minColumns = colContig + 1
)

const maxLineBytes = 1 << 20

var callerHeader = regexp.MustCompile(`(?i)^#\s*(?:gene[\s_-]*caller|caller)\s*[:=]\s*(\S.*?)\s*$`)

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithFallbackCaller names the caller when the file carries no caller header.
func WithFallbackCaller(name string) ParseOption {
	return func(p *parser) { p.caller = name }
}

type parser struct {
	source string
	caller string
	named  bool
	set    *genecall.CallSet
}

// Parse reads one caller's normalized call file. The first invalid line
// aborts parsing with a *genecall.FormatError naming source and line.
func Parse(r io.Reader, source string, opts ...ParseOption) (*genecall.CallSet, error) {
	p := &parser{source: source}
	for _, opt := range opts {
		opt(p)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.line(scanner.Text(), lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, p.fail(lineNo+1, fmt.Sprintf("line longer than %d bytes", maxLineBytes))
		}
		return nil, fmt.Errorf("scan %s: %w", source, err)
	}

	if p.set == nil {
		if p.caller == "" {
			return nil, (&genecall.FormatError{Reason: "missing gene caller header"}).At(source, 0)
		}
		p.set = genecall.NewCallSet(p.caller)
	}
	return p.set, nil
}

func (p *parser) line(text string, lineNo int) error {
	line := strings.TrimRight(text, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if strings.HasPrefix(line, "#") {
		if m := callerHeader.FindStringSubmatch(line); m != nil {
			if p.set != nil {
				return p.fail(lineNo, "gene caller header after first call")
			}
			if p.named && m[1] != p.caller {
				return p.fail(lineNo, fmt.Sprintf("conflicting gene caller headers %q and %q", p.caller, m[1]))
			}
			p.caller = m[1]
			p.named = true
		}
		return nil
	}

	if p.set == nil {
		if p.caller == "" {
			return p.fail(lineNo, "gene call before gene caller header")
		}
		p.set = genecall.NewCallSet(p.caller)
	}

	call, err := p.call(line)
	if err != nil {
		return p.located(err, lineNo)
	}
	if err := p.set.AddCall(call); err != nil {
		return p.located(err, lineNo)
	}
	return nil
}

func (p *parser) call(line string) (genecall.Call, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minColumns {
		return genecall.Call{}, &genecall.FormatError{
			Reason: fmt.Sprintf("expected at least %d tab-separated fields, got %d", minColumns, len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	strand, err := genecall.ParseStrand(fields[colStrand])
	if err != nil {
		return genecall.Call{}, &genecall.FormatError{Reason: err.Error()}
	}
	left, err := parseCoordinate("left end", fields[colLeft])
	if err != nil {
		return genecall.Call{}, err
	}
	right, err := parseCoordinate("right end", fields[colRight])
	if err != nil {
		return genecall.Call{}, err
	}

	call, err := genecall.NewCall(fields[colContig], left, right, strand, p.caller)
	if err != nil {
		return genecall.Call{}, err
	}

	if length := fields[colLength]; length != "" {
		n, err := parseCoordinate("length", length)
		if err != nil {
			return genecall.Call{}, err
		}
		if n != call.Length() {
			return genecall.Call{}, &genecall.FormatError{
				Reason: fmt.Sprintf("length %d does not match coordinates %d..%d", n, left, right),
			}
		}
	}

	label := field(fields, colLabel)
	if label == "" && fields[colNumber] != "" {
		label = p.caller + "_" + fields[colNumber]
	}
	return call.WithLabel(label).WithProduct(field(fields, colProduct)), nil
}

func (p *parser) fail(lineNo int, reason string) error {
	return (&genecall.FormatError{Reason: reason}).At(p.source, lineNo)
}

func (p *parser) located(err error, lineNo int) error {
	var fe *genecall.FormatError
	if errors.As(err, &fe) {
		return fe.At(p.source, lineNo)
	}
	return fmt.Errorf("%s:%d: %w", p.source, lineNo, err)
}

func parseCoordinate(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &genecall.FormatError{Reason: fmt.Sprintf("%s %q is not an integer", name, s)}
	}
	return n, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
