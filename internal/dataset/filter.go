package dataset

import (
	"math"
	"strings"
	"time"

	"github.com/mmrzaf/datadash/internal/timeutil"
)

const (
	valueColumn    = "value"
	categoryColumn = "category"
)

// FilterConfig holds optional row predicates. The zero value keeps every row.
type FilterConfig struct {
	MinValue   *float64   `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue   *float64   `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Categories []string   `json:"categories,omitempty" yaml:"categories,omitempty"`
	DateRange  *DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`
}

// DateRange bounds are RFC3339 timestamps or relative offsets such as "-7d".
// An empty bound is open.
type DateRange struct {
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`
}

func (f FilterConfig) IsZero() bool {
	return f.MinValue == nil && f.MaxValue == nil && len(f.Categories) == 0 &&
		(f.DateRange == nil || (f.DateRange.From == "" && f.DateRange.To == ""))
}

// Validate checks the bounds without applying them.
func (f FilterConfig) Validate(now time.Time) error {
	if f.MinValue != nil && (math.IsNaN(*f.MinValue) || math.IsInf(*f.MinValue, 0)) {
		return InvalidParameterf("min_value must be finite")
	}
	if f.MaxValue != nil && (math.IsNaN(*f.MaxValue) || math.IsInf(*f.MaxValue, 0)) {
		return InvalidParameterf("max_value must be finite")
	}
	for _, c := range f.Categories {
		if strings.TrimSpace(c) == "" {
			return InvalidParameterf("categories must not contain empty labels")
		}
	}
	if f.DateRange != nil {
		if _, _, err := f.DateRange.resolve(now); err != nil {
			return err
		}
	}
	return nil
}

func (d *DateRange) resolve(now time.Time) (from, to *time.Time, err error) {
	if d.From != "" {
		t, perr := timeutil.ParseRelativeTime(d.From, now)
		if perr != nil {
			return nil, nil, InvalidParameterf("date_range.from: %v", perr)
		}
		from = &t
	}
	if d.To != "" {
		t, perr := timeutil.ParseRelativeTime(d.To, now)
		if perr != nil {
			return nil, nil, InvalidParameterf("date_range.to: %v", perr)
		}
		to = &t
	}
	return from, to, nil
}

// ApplyFilters returns a new table with the rows matching every configured predicate.
// Relative date bounds resolve against the current time.
func ApplyFilters(t *Table, f FilterConfig) *Table {
	return ApplyFiltersAt(t, f, time.Now())
}

// ApplyFiltersAt is ApplyFilters with an explicit reference time.
//
// Value bounds read the "value" column, categories the "category" column and the date
// range the first timestamp column. A predicate whose column is missing is skipped, as is
// an unparseable date bound (Validate reports those).
func ApplyFiltersAt(t *Table, f FilterConfig, now time.Time) *Table {
	n := t.NumRows()
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	if f.MinValue != nil || f.MaxValue != nil {
		if col, ok := t.Column(valueColumn); ok && col.Numeric() {
			values := col.AsFloats()
			for i, v := range values {
				if f.MinValue != nil && v < *f.MinValue {
					keep[i] = false
				}
				if f.MaxValue != nil && v > *f.MaxValue {
					keep[i] = false
				}
			}
		}
	}

	if len(f.Categories) > 0 {
		if col, ok := t.Column(categoryColumn); ok && col.Type == ColumnTypeString {
			allowed := make(map[string]struct{}, len(f.Categories))
			for _, c := range f.Categories {
				allowed[c] = struct{}{}
			}
			for i, v := range col.Strings {
				if _, ok := allowed[v]; !ok {
					keep[i] = false
				}
			}
		}
	}

	if f.DateRange != nil {
		from, to, err := f.DateRange.resolve(now)
		if col, ok := firstTimeColumn(t); ok && err == nil {
			for i, ts := range col.Times {
				if from != nil && ts.Before(*from) {
					keep[i] = false
				}
				if to != nil && ts.After(*to) {
					keep[i] = false
				}
			}
		}
	}

	idx := make([]int, 0, n)
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return t.Select(idx)
}

func firstTimeColumn(t *Table) (Column, bool) {
	for _, c := range t.Columns {
		if c.Type == ColumnTypeTimestamp {
			return c, true
		}
	}
	return Column{}, false
}
