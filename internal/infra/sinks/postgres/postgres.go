package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mmrzaf/datadash/internal/dataset"
)

// maxParams is the bind parameter limit of the postgres wire protocol.
const maxParams = 65535

type PostgresSink struct {
	dsn    string
	schema string
	db     *sql.DB
}

func NewPostgresSink(dsn, schema string) *PostgresSink {
	if schema == "" {
		schema = "public"
	}
	return &PostgresSink{
		dsn:    dsn,
		schema: schema,
	}
}

func (s *PostgresSink) Connect() error {
	db, err := sql.Open("postgres", s.dsn)
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

func (s *PostgresSink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresSink) ServerVersion() (string, error) {
	var version string
	err := s.db.QueryRow(`SHOW server_version`).Scan(&version)
	return version, err
}

func (s *PostgresSink) qualified(table string) string {
	return pq.QuoteIdentifier(s.schema) + "." + pq.QuoteIdentifier(table)
}

func (s *PostgresSink) CreateTableIfNotExists(table string, schema []dataset.ColumnSchema) error {
	_, err := s.db.Exec(CreateTableSQL(s.schema, table, schema))
	return err
}

// CreateTableSQL renders the DDL used for a pushed dataset.
func CreateTableSQL(schemaName, table string, schema []dataset.ColumnSchema) string {
	columnDefs := make([]string, len(schema))
	for i, col := range schema {
		columnDefs[i] = fmt.Sprintf("%s %s NOT NULL", pq.QuoteIdentifier(col.Name), mapColumnType(col.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (%s)",
		pq.QuoteIdentifier(schemaName), pq.QuoteIdentifier(table), strings.Join(columnDefs, ", "))
}

func mapColumnType(colType dataset.ColumnType) string {
	switch colType {
	case dataset.ColumnTypeInt:
		return "BIGINT"
	case dataset.ColumnTypeFloat:
		return "DOUBLE PRECISION"
	case dataset.ColumnTypeTimestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func (s *PostgresSink) TruncateTable(table string) error {
	_, err := s.db.Exec(fmt.Sprintf("TRUNCATE TABLE %s", s.qualified(table)))
	return err
}

// InsertBatch writes rows with multi-row VALUES statements, split so no statement
// exceeds the bind parameter limit.
func (s *PostgresSink) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 || len(columns) == 0 {
		return nil
	}
	perStmt := maxParams / len(columns)
	for start := 0; start < len(rows); start += perStmt {
		end := start + perStmt
		if end > len(rows) {
			end = len(rows)
		}
		query, args := InsertSQL(s.qualified(table), columns, rows[start:end])
		if _, err := s.db.Exec(query, args...); err != nil {
			return err
		}
	}
	return nil
}

// InsertSQL renders one multi-row INSERT with $n placeholders.
func InsertSQL(qualifiedTable string, columns []string, rows [][]interface{}) (string, []interface{}) {
	quotedCols := make([]string, len(columns))
	for i, col := range columns {
		quotedCols[i] = pq.QuoteIdentifier(col)
	}

	placeholders := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(columns))

	for i, row := range rows {
		rowPlaceholders := make([]string, len(columns))
		for j := range columns {
			rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
			args = append(args, row[j])
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		qualifiedTable, strings.Join(quotedCols, ", "), strings.Join(placeholders, ", ")), args
}
