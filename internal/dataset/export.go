package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	MIMECSV  = "text/csv"
	MIMEJSON = "application/json"
)

const timeLayout = time.RFC3339Nano

// ExportCSV encodes the table as comma-separated UTF-8 with a header row and no index column.
func ExportCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Names()); err != nil {
		return nil, err
	}
	record := make([]string, len(t.Columns))
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.Columns {
			record[j] = formatCell(c, i)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(c Column, i int) string {
	switch c.Type {
	case ColumnTypeFloat:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case ColumnTypeInt:
		return strconv.FormatInt(c.Ints[i], 10)
	case ColumnTypeString:
		return c.Strings[i]
	case ColumnTypeTimestamp:
		return c.Times[i].Format(timeLayout)
	default:
		return ""
	}
}

// ExportJSON encodes the table as an array of objects whose keys follow column order.
func ExportJSON(t *Table) ([]byte, error) {
	keys := make([][]byte, len(t.Columns))
	for j, c := range t.Columns {
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		keys[j] = k
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < t.NumRows(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[j])
			buf.WriteByte(':')
			if err := writeJSONCell(&buf, c, i); err != nil {
				return nil, fmt.Errorf("column %s, row %d: %w", c.Name, i, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeJSONCell(buf *bytes.Buffer, c Column, i int) error {
	switch c.Type {
	case ColumnTypeFloat:
		v := c.Floats[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("unsupported float value %v", v)
		}
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case ColumnTypeInt:
		buf.WriteString(strconv.FormatInt(c.Ints[i], 10))
	case ColumnTypeString:
		b, err := json.Marshal(c.Strings[i])
		if err != nil {
			return err
		}
		buf.Write(b)
	case ColumnTypeTimestamp:
		b, err := json.Marshal(c.Times[i].Format(timeLayout))
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		buf.WriteString("null")
	}
	return nil
}
