package domain

import (
	"encoding/json"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/generators"
)

// DatasetRequest is the explicit configuration for one generation. Either Kind or
// PresetID must be set; request fields override the preset's.
type DatasetRequest struct {
	PresetID string               `json:"preset_id,omitempty" yaml:"preset_id,omitempty"`
	Kind     string               `json:"kind,omitempty" yaml:"kind,omitempty"`
	Params   generators.Params    `json:"params,omitempty" yaml:"params,omitempty"`
	Seed     *int64               `json:"seed,omitempty" yaml:"seed,omitempty"`
	Filters  dataset.FilterConfig `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Preset is a saved DatasetRequest loaded from the presets directory.
type Preset struct {
	ID          string               `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        string               `json:"kind" yaml:"kind"`
	Params      generators.Params    `json:"params,omitempty" yaml:"params,omitempty"`
	Seed        *int64               `json:"seed,omitempty" yaml:"seed,omitempty"`
	Filters     dataset.FilterConfig `json:"filters,omitempty" yaml:"filters,omitempty"`
}

type SinkConfig struct {
	ID      string            `json:"id" yaml:"id"`
	Name    string            `json:"name" yaml:"name"`
	Kind    string            `json:"kind" yaml:"kind"`
	DSN     string            `json:"dsn" yaml:"dsn"`
	Schema  string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

const (
	SinkKindSQLite        = "sqlite"
	SinkKindPostgres      = "postgres"
	SinkKindElasticsearch = "elasticsearch"
)

type SinkCheck struct {
	SinkID        string           `json:"sink_id,omitempty"`
	Kind          string           `json:"kind"`
	OK            bool             `json:"ok"`
	LatencyMS     int64            `json:"latency_ms"`
	ServerVersion string           `json:"server_version,omitempty"`
	Capabilities  SinkCapabilities `json:"capabilities"`
	Error         string           `json:"error,omitempty"`
	CheckedAt     time.Time        `json:"checked_at"`
}

type SinkCapabilities struct {
	CanCreate   bool `json:"can_create"`
	CanInsert   bool `json:"can_insert"`
	CanTruncate bool `json:"can_truncate"`
}

// GenerationRecord is one history entry.
type GenerationRecord struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	PresetID   string          `json:"preset_id,omitempty"`
	Params     json.RawMessage `json:"params,omitempty"`
	Filters    json.RawMessage `json:"filters,omitempty"`
	Seed       int64           `json:"seed"`
	ConfigHash string          `json:"config_hash"`
	Rows       int             `json:"rows"`
	Columns    []string        `json:"columns"`
	CreatedAt  time.Time       `json:"created_at"`
	DurationMS int64           `json:"duration_ms"`
}

type PushStats struct {
	SinkID          string  `json:"sink_id,omitempty"`
	SinkKind        string  `json:"sink_kind"`
	Table           string  `json:"table"`
	Mode            string  `json:"mode"`
	RowsWritten     int64   `json:"rows_written"`
	Batches         int     `json:"batches"`
	DurationSeconds float64 `json:"duration_seconds"`
}

const (
	TableModeCreateIfMissing    = "create_if_missing"
	TableModeTruncateThenInsert = "truncate_then_insert"
	TableModeAppendOnly         = "append_only"
)
