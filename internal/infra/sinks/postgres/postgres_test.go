package postgres

import (
	"strings"
	"testing"

	"github.com/mmrzaf/datadash/internal/dataset"
)

func TestCreateTableSQL_QuotesAndMapsTypes(t *testing.T) {
	got := CreateTableSQL("analytics", "scatter", []dataset.ColumnSchema{
		{Name: "x", Type: dataset.ColumnTypeFloat},
		{Name: "group", Type: dataset.ColumnTypeString},
		{Name: "size", Type: dataset.ColumnTypeInt},
		{Name: "date", Type: dataset.ColumnTypeTimestamp},
	})
	want := `CREATE TABLE IF NOT EXISTS "analytics"."scatter" ("x" DOUBLE PRECISION NOT NULL, "group" TEXT NOT NULL, "size" BIGINT NOT NULL, "date" TIMESTAMPTZ NOT NULL)`
	if got != want {
		t.Fatalf("unexpected DDL:\n got %s\nwant %s", got, want)
	}
}

func TestInsertSQL_Placeholders(t *testing.T) {
	query, args := InsertSQL(`"public"."t"`, []string{"a", "b"}, [][]interface{}{{1, "x"}, {2, "y"}})
	if !strings.HasSuffix(query, `("a", "b") VALUES ($1, $2), ($3, $4)`) {
		t.Fatalf("unexpected query %s", query)
	}
	if len(args) != 4 || args[2] != 2 || args[3] != "y" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestNewPostgresSink_DefaultSchema(t *testing.T) {
	s := NewPostgresSink("postgres://localhost/x", "")
	if s.qualified("t") != `"public"."t"` {
		t.Fatalf("unexpected qualified name %s", s.qualified("t"))
	}
}
