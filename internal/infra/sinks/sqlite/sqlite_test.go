package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
)

func TestSQLiteSink_CreateInsertTruncate(t *testing.T) {
	s := NewSQLiteSink(filepath.Join(t.TempDir(), "sink.db"))
	if err := s.Connect(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	schema := []dataset.ColumnSchema{
		{Name: "date", Type: dataset.ColumnTypeTimestamp},
		{Name: "value", Type: dataset.ColumnTypeFloat},
		{Name: "group", Type: dataset.ColumnTypeString},
		{Name: "size", Type: dataset.ColumnTypeInt},
	}
	if err := s.CreateTableIfNotExists("points", schema); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTableIfNotExists("points", schema); err != nil {
		t.Fatalf("second create should be a no-op: %v", err)
	}

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := [][]interface{}{
		{ts, 1.5, "Group 1", int64(10)},
		{ts.Add(time.Hour), 2.5, "Group 2", int64(20)},
	}
	if err := s.InsertBatch("points", []string{"date", "value", "group", "size"}, rows); err != nil {
		t.Fatal(err)
	}

	var count int
	var sum float64
	if err := s.db.QueryRow(`SELECT COUNT(*), SUM(value) FROM points`).Scan(&count, &sum); err != nil {
		t.Fatal(err)
	}
	if count != 2 || sum != 4 {
		t.Fatalf("expected 2 rows summing to 4, got %d / %v", count, sum)
	}

	if err := s.TruncateTable("points"); err != nil {
		t.Fatal(err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM points`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty table after truncate, got %d", count)
	}

	if v, err := s.ServerVersion(); err != nil || v == "" {
		t.Fatalf("expected sqlite version, got %q err=%v", v, err)
	}
}
