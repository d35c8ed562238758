package report

import (
	"fmt"
	"io"

	"github.com/helixml/cgc/domain/reconcile"
	"gopkg.in/yaml.v3"
)

// Summary is the YAML form of the report.
type Summary struct {
	Callers         []CallerEntry    `yaml:"callers"`
	TotalCallers    int              `yaml:"total_callers"`
	TotalInputCalls int              `yaml:"total_input_calls"`
	TotalLoci       int              `yaml:"total_loci"`
	CommonCore      int              `yaml:"common_core"`
	Histogram       []HistogramEntry `yaml:"agreement_histogram"`
	Unique          []UniqueEntry    `yaml:"unique_calls,omitempty"`
}

// CallerEntry holds counts for one caller.
type CallerEntry struct {
	Name   string `yaml:"name"`
	Input  int    `yaml:"input_calls"`
	Unique int    `yaml:"unique_calls"`
}

// HistogramEntry counts loci with a given agreement.
type HistogramEntry struct {
	Agreement int `yaml:"agreement"`
	Loci      int `yaml:"loci"`
}

// UniqueEntry is one call that only its own caller predicted.
type UniqueEntry struct {
	Caller string `yaml:"caller"`
	Contig string `yaml:"contig"`
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
	Strand string `yaml:"strand"`
	Label  string `yaml:"label,omitempty"`
}

// NewSummary collects the report content of r.
func NewSummary(r reconcile.Result, withUnique bool) Summary {
	s := Summary{
		TotalCallers:    r.TotalCallers(),
		TotalInputCalls: r.TotalInputCalls(),
		TotalLoci:       r.TotalLoci(),
		CommonCore:      r.CommonCoreCount(),
	}
	for _, c := range r.Callers() {
		s.Callers = append(s.Callers, CallerEntry{Name: c.Name(), Input: c.InputCount(), Unique: c.UniqueCount()})
		if !withUnique {
			continue
		}
		for _, u := range r.Unique(c.Name()) {
			s.Unique = append(s.Unique, UniqueEntry{
				Caller: u.Caller(),
				Contig: u.Contig(),
				Start:  u.Start(),
				End:    u.End(),
				Strand: u.Strand().String(),
				Label:  u.Label(),
			})
		}
	}
	for i, n := range r.Histogram() {
		s.Histogram = append(s.Histogram, HistogramEntry{Agreement: i + 1, Loci: n})
	}
	return s
}

// WriteYAML encodes the summary of r, including unique calls when
// withUnique is set.
func WriteYAML(w io.Writer, r reconcile.Result, withUnique bool) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewSummary(r, withUnique)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
