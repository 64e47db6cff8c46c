package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one numeric column. Std is the sample standard deviation.
type Summary struct {
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// Summarize computes a Summary of values. Empty input yields the zero Summary.
func Summarize(values []float64) Summary {
	s := Summary{Count: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	if len(values) < 2 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	return s
}

// Describe summarizes every numeric column of the table.
func Describe(t *Table) map[string]Summary {
	out := make(map[string]Summary)
	for _, c := range t.Columns {
		if !c.Numeric() {
			continue
		}
		out[c.Name] = Summarize(c.AsFloats())
	}
	return out
}

// Correlation returns the Pearson correlation between two numeric columns.
func Correlation(t *Table, a, b string) (float64, error) {
	ca, ok := t.Column(a)
	if !ok || !ca.Numeric() {
		return 0, InvalidParameterf("no numeric column %q", a)
	}
	cb, ok := t.Column(b)
	if !ok || !cb.Numeric() {
		return 0, InvalidParameterf("no numeric column %q", b)
	}
	if t.NumRows() < 2 {
		return 0, fmt.Errorf("%w: correlation needs at least 2 rows, got %d", ErrInvalidParameter, t.NumRows())
	}
	return stat.Correlation(ca.AsFloats(), cb.AsFloats(), nil), nil
}
