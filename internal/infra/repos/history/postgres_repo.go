package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mmrzaf/datadash/internal/domain"
)

type PostgresRepository struct {
	dsn string
	db  *sql.DB
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{dsn: strings.TrimSpace(dsn)}
}

func (r *PostgresRepository) Init() error {
	if r.dsn == "" {
		return fmt.Errorf("history db dsn is required")
	}
	db, err := sql.Open("postgres", r.dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	r.db = db
	return r.applyMigrations()
}

func (r *PostgresRepository) DB() *sql.DB { return r.db }

func (r *PostgresRepository) applyMigrations() error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var cur int
	if err := r.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&cur); err != nil {
		return err
	}

	type mig struct {
		v  int
		up func(*sql.DB) error
	}
	migs := []mig{
		{1, migrateV1GenerationsPG},
		{2, migrateV2GenerationsIndexPG},
	}

	for _, m := range migs {
		if cur >= m.v {
			continue
		}
		if err := m.up(r.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.v, err)
		}
		if _, err := r.db.Exec(`INSERT INTO schema_migrations(version) VALUES ($1)`, m.v); err != nil {
			return err
		}
		cur = m.v
	}
	return nil
}

func migrateV1GenerationsPG(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		preset_id TEXT,
		params JSONB,
		filters JSONB,
		seed BIGINT NOT NULL,
		config_hash TEXT NOT NULL,
		row_count BIGINT NOT NULL,
		columns TEXT[] NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		duration_ms BIGINT NOT NULL
	)`)
	return err
}

func migrateV2GenerationsIndexPG(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_generations_kind_time ON generations(kind, created_at DESC)`)
	return err
}

func (r *PostgresRepository) Create(rec *domain.GenerationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	cols := rec.Columns
	if cols == nil {
		cols = []string{}
	}
	_, err := r.db.Exec(`
	INSERT INTO generations (
		id, kind, preset_id, params, filters,
		seed, config_hash, row_count, columns, created_at, duration_ms
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Kind, rec.PresetID, rawOrNull(rec.Params), rawOrNull(rec.Filters),
		rec.Seed, rec.ConfigHash, rec.Rows, pq.Array(cols), rec.CreatedAt, rec.DurationMS,
	)
	return err
}

const pgSelect = `
	SELECT id, kind, preset_id, params, filters,
		seed, config_hash, row_count, columns, created_at, duration_ms
	FROM generations`

func scanPG(s scanner) (*domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	var presetID, params, filters sql.NullString
	var cols pq.StringArray
	if err := s.Scan(
		&rec.ID, &rec.Kind, &presetID, &params, &filters,
		&rec.Seed, &rec.ConfigHash, &rec.Rows, &cols, &rec.CreatedAt, &rec.DurationMS,
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
	rec.Columns = []string(cols)
	return &rec, nil
}

func (r *PostgresRepository) Get(id string) (*domain.GenerationRecord, error) {
	rec, err := scanPG(r.db.QueryRow(pgSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *PostgresRepository) List(limit int, kind string) ([]*domain.GenerationRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if kind != "" {
		rows, err = r.db.Query(pgSelect+`
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2`, kind, limit)
	} else {
		rows, err = r.db.Query(pgSelect+`
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.GenerationRecord
	for rows.Next() {
		rec, err := scanPG(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
