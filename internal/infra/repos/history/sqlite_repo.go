package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/datadash/internal/domain"
)

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
	if dir := filepath.Dir(r.dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		preset_id TEXT,
		params TEXT,
		filters TEXT,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		columns TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		duration_ms INTEGER NOT NULL
	)`
	if _, err = r.db.Exec(createTableSQL); err != nil {
		return err
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_generations_kind_time ON generations(kind, created_at DESC)`)
	return err
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Create(rec *domain.GenerationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	cols, err := encodeColumns(rec.Columns)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO generations (
			id, kind, preset_id, params, filters,
			seed, config_hash, row_count, columns, created_at, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		rec.ID, rec.Kind, rec.PresetID, rawOrNull(rec.Params), rawOrNull(rec.Filters),
		rec.Seed, rec.ConfigHash, rec.Rows, cols,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.DurationMS,
	)
	return err
}

const sqliteSelect = `
	SELECT id, kind, preset_id, params, filters,
	       seed, config_hash, row_count, columns, created_at, duration_ms
	FROM generations
`

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(s scanner) (*domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	var presetID, params, filters sql.NullString
	var cols, createdAt string
	if err := s.Scan(
		&rec.ID, &rec.Kind, &presetID, &params, &filters,
		&rec.Seed, &rec.ConfigHash, &rec.Rows, &cols, &createdAt, &rec.DurationMS,
	); err != nil {
		return nil, err
	}
	rec.PresetID = presetID.String
	if params.Valid {
		rec.Params = json.RawMessage(params.String)
	}
	if filters.Valid {
		rec.Filters = json.RawMessage(filters.String)
	}
	rec.Columns = decodeColumns(cols)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &rec, nil
}

func (r *SQLiteRepository) Get(id string) (*domain.GenerationRecord, error) {
	rec, err := scanSQLite(r.db.QueryRow(sqliteSelect+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *SQLiteRepository) List(limit int, kind string) ([]*domain.GenerationRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := sqliteSelect
	args := make([]interface{}, 0, 2)
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.GenerationRecord, 0)
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
