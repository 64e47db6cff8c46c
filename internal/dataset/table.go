package dataset

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidParameter is wrapped by every error caused by a caller-supplied value
// (counts, ranges, filter bounds) so transports can map it to a client error.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterf builds an error wrapping ErrInvalidParameter.
func InvalidParameterf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

type ColumnType string

const (
	ColumnTypeFloat     ColumnType = "float"
	ColumnTypeInt       ColumnType = "int"
	ColumnTypeString    ColumnType = "string"
	ColumnTypeTimestamp ColumnType = "timestamp"
)

// Column holds the values of one named column. Only the slice matching Type is set.
type Column struct {
	Name    string
	Type    ColumnType
	Floats  []float64
	Ints    []int64
	Strings []string
	Times   []time.Time
}

func FloatColumn(name string, values []float64) Column {
	return Column{Name: name, Type: ColumnTypeFloat, Floats: values}
}

func IntColumn(name string, values []int64) Column {
	return Column{Name: name, Type: ColumnTypeInt, Ints: values}
}

func StringColumn(name string, values []string) Column {
	return Column{Name: name, Type: ColumnTypeString, Strings: values}
}

func TimeColumn(name string, values []time.Time) Column {
	return Column{Name: name, Type: ColumnTypeTimestamp, Times: values}
}

func (c Column) Len() int {
	switch c.Type {
	case ColumnTypeFloat:
		return len(c.Floats)
	case ColumnTypeInt:
		return len(c.Ints)
	case ColumnTypeString:
		return len(c.Strings)
	case ColumnTypeTimestamp:
		return len(c.Times)
	default:
		return 0
	}
}

// Value returns the i-th value boxed as float64, int64, string or time.Time.
func (c Column) Value(i int) any {
	switch c.Type {
	case ColumnTypeFloat:
		return c.Floats[i]
	case ColumnTypeInt:
		return c.Ints[i]
	case ColumnTypeString:
		return c.Strings[i]
	case ColumnTypeTimestamp:
		return c.Times[i]
	default:
		return nil
	}
}

// Numeric reports whether the column can be read as float64 values.
func (c Column) Numeric() bool {
	return c.Type == ColumnTypeFloat || c.Type == ColumnTypeInt
}

// AsFloats returns the column as float64 values. Non-numeric columns return nil.
func (c Column) AsFloats() []float64 {
	switch c.Type {
	case ColumnTypeFloat:
		return c.Floats
	case ColumnTypeInt:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out
	default:
		return nil
	}
}

func (c Column) pick(idx []int) Column {
	out := Column{Name: c.Name, Type: c.Type}
	switch c.Type {
	case ColumnTypeFloat:
		out.Floats = make([]float64, len(idx))
		for i, j := range idx {
			out.Floats[i] = c.Floats[j]
		}
	case ColumnTypeInt:
		out.Ints = make([]int64, len(idx))
		for i, j := range idx {
			out.Ints[i] = c.Ints[j]
		}
	case ColumnTypeString:
		out.Strings = make([]string, len(idx))
		for i, j := range idx {
			out.Strings[i] = c.Strings[j]
		}
	case ColumnTypeTimestamp:
		out.Times = make([]time.Time, len(idx))
		for i, j := range idx {
			out.Times[i] = c.Times[j]
		}
	}
	return out
}

// ColumnSchema is the name/type pair of a column without its values.
type ColumnSchema struct {
	Name string     `json:"name" yaml:"name"`
	Type ColumnType `json:"type" yaml:"type"`
}

// Table is an ordered set of equally sized columns.
type Table struct {
	Columns []Column
}

// NewTable checks that every column has the same length and a unique name.
func NewTable(columns ...Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column name: %s", c.Name)
		}
		seen[c.Name] = true
		if c.Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %s has %d rows, expected %d", c.Name, c.Len(), columns[0].Len())
		}
	}
	return &Table{Columns: columns}, nil
}

func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func (t *Table) Schema() []ColumnSchema {
	schema := make([]ColumnSchema, len(t.Columns))
	for i, c := range t.Columns {
		schema[i] = ColumnSchema{Name: c.Name, Type: c.Type}
	}
	return schema
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Value(i)
	}
	return row
}

// Rows returns every row in column order.
func (t *Table) Rows() [][]any {
	n := t.NumRows()
	rows := make([][]any, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return rows
}

// Select returns a new table holding only the given row indices, in that order.
func (t *Table) Select(idx []int) *Table {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.pick(idx)
	}
	return &Table{Columns: cols}
}
