package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/datadash/internal/dataset"
)

type SQLiteSink struct {
	path string
	db   *sql.DB
}

func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{path: path}
}

func (s *SQLiteSink) Connect() error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteSink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSink) ServerVersion() (string, error) {
	var version string
	err := s.db.QueryRow(`SELECT sqlite_version()`).Scan(&version)
	return version, err
}

func (s *SQLiteSink) CreateTableIfNotExists(table string, schema []dataset.ColumnSchema) error {
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	var name string
	err := s.db.QueryRow(query, table).Scan(&name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	columnDefs := make([]string, len(schema))
	for i, col := range schema {
		columnDefs[i] = fmt.Sprintf("%s %s NOT NULL", quoteIdent(col.Name), mapColumnType(col.Type))
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)",
		quoteIdent(table), strings.Join(columnDefs, ", "))

	_, err = s.db.Exec(createSQL)
	return err
}

func mapColumnType(colType dataset.ColumnType) string {
	switch colType {
	case dataset.ColumnTypeInt:
		return "INTEGER"
	case dataset.ColumnTypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (s *SQLiteSink) TruncateTable(table string) error {
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteIdent(table)))
	return err
}

func (s *SQLiteSink) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(columns))
	quoted := make([]string, len(columns))
	for i, c := range columns {
		placeholders[i] = "?"
		quoted[i] = quoteIdent(c)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(columns))
	for _, row := range rows {
		for i, val := range row {
			if t, ok := val.(time.Time); ok {
				args[i] = t.UTC().Format(time.RFC3339Nano)
			} else {
				args[i] = val
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
