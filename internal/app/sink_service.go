package app

import (
	"fmt"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/exec"
	"github.com/mmrzaf/datadash/internal/infra/repos/sinks"
	esSink "github.com/mmrzaf/datadash/internal/infra/sinks/elasticsearch"
	pgSink "github.com/mmrzaf/datadash/internal/infra/sinks/postgres"
	sqliteSink "github.com/mmrzaf/datadash/internal/infra/sinks/sqlite"
	"github.com/mmrzaf/datadash/internal/validation"
)

// versionedSink is a sink that can report the server it talks to.
type versionedSink interface {
	exec.Sink
	ServerVersion() (string, error)
}

// ListSinks returns the configured sinks with credentials masked.
func (s *DatasetService) ListSinks() ([]*domain.SinkConfig, error) {
	list, err := s.sinkRepo.List()
	if err != nil {
		return nil, err
	}
	return sinks.RedactSinks(list), nil
}

func (s *DatasetService) GetSink(id string) (*domain.SinkConfig, error) {
	cfg, err := s.sinkRepo.Get(id)
	if err != nil {
		return nil, err
	}
	return sinks.RedactSink(cfg), nil
}

type PushRequest struct {
	Dataset domain.DatasetRequest `json:"dataset"`
	SinkID  string                `json:"sink_id"`
	Table   string                `json:"table"`
	Mode    string                `json:"mode,omitempty"`
	// Database overrides the database of a postgres sink DSN.
	Database string `json:"database,omitempty"`
}

type PushResult struct {
	Stats    *domain.PushStats `json:"stats"`
	Seed     int64             `json:"seed"`
	RecordID string            `json:"record_id,omitempty"`
}

// Push generates the requested dataset and writes it into the named sink.
func (s *DatasetService) Push(req *PushRequest) (*PushResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = domain.TableModeCreateIfMissing
	}
	if err := validation.ValidatePush(req.Table, mode, s.batchSize); err != nil {
		return nil, err
	}
	cfg, err := s.sinkRepo.Get(req.SinkID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateSink(cfg); err != nil {
		return nil, fmt.Errorf("sink '%s': %w", cfg.ID, err)
	}
	effective := resolveSinkForPush(cfg, req.Database)
	sink, err := buildSink(effective)
	if err != nil {
		return nil, err
	}

	res, err := s.Generate(&req.Dataset)
	if err != nil {
		return nil, err
	}

	executor := exec.NewExecutor(s.batchSize)
	executor.OnBatch = func(rowsWritten int64) {
		s.logger.Debugw("sink.batch_written", map[string]any{"sink_id": cfg.ID, "rows_written": rowsWritten})
	}
	stats, err := executor.Push(res.Table, sink, req.Table, mode)
	if err != nil {
		s.logger.Errorw("sink.push_failed", map[string]any{
			"sink_id": cfg.ID,
			"kind":    cfg.Kind,
			"table":   req.Table,
			"error":   err,
		})
		return nil, err
	}
	stats.SinkID = cfg.ID
	stats.SinkKind = cfg.Kind

	s.logger.Infow("sink.pushed", map[string]any{
		"sink_id":          cfg.ID,
		"kind":             cfg.Kind,
		"table":            req.Table,
		"mode":             mode,
		"rows_written":     stats.RowsWritten,
		"batches":          stats.Batches,
		"duration_seconds": stats.DurationSeconds,
	})
	return &PushResult{Stats: stats, Seed: res.Seed, RecordID: res.RecordID}, nil
}

func buildSink(cfg *domain.SinkConfig) (versionedSink, error) {
	switch cfg.Kind {
	case domain.SinkKindPostgres:
		return pgSink.NewPostgresSink(cfg.DSN, cfg.Schema), nil
	case domain.SinkKindSQLite:
		return sqliteSink.NewSQLiteSink(cfg.DSN), nil
	case domain.SinkKindElasticsearch:
		return esSink.NewElasticsearchSink(cfg.DSN), nil
	default:
		return nil, dataset.InvalidParameterf("unsupported sink kind: %s", cfg.Kind)
	}
}

// CheckSink connects to the sink, reads its server version and probes whether a
// scratch table can be created, written and truncated. The returned check is filled
// in even when err is non-nil.
func (s *DatasetService) CheckSink(cfg *domain.SinkConfig) (*domain.SinkCheck, error) {
	check := &domain.SinkCheck{
		SinkID:    cfg.ID,
		Kind:      cfg.Kind,
		CheckedAt: time.Now().UTC(),
	}
	if err := s.validator.ValidateSink(cfg); err != nil {
		check.Error = err.Error()
		return check, err
	}

	start := time.Now()
	sink, err := buildSink(resolveSinkForPush(cfg, ""))
	if err != nil {
		check.Error = err.Error()
		return check, err
	}
	if err := sink.Connect(); err != nil {
		check.Error = err.Error()
		check.LatencyMS = time.Since(start).Milliseconds()
		return check, err
	}
	defer sink.Close()

	check.OK = true
	check.LatencyMS = time.Since(start).Milliseconds()
	if ver, err := sink.ServerVersion(); err == nil {
		check.ServerVersion = ver
	}
	check.Capabilities = probeCapabilities(sink)

	s.logger.Infow("sink.checked", map[string]any{
		"sink_id":    cfg.ID,
		"kind":       cfg.Kind,
		"latency_ms": check.LatencyMS,
		"version":    check.ServerVersion,
	})
	return check, nil
}

// CheckSinkByID loads a configured sink and checks it.
func (s *DatasetService) CheckSinkByID(id string) (*domain.SinkCheck, error) {
	cfg, err := s.sinkRepo.Get(id)
	if err != nil {
		return nil, err
	}
	return s.CheckSink(cfg)
}

func probeCapabilities(sink exec.Sink) domain.SinkCapabilities {
	table := fmt.Sprintf("datadash_check_%d", time.Now().UnixNano())
	schema := []dataset.ColumnSchema{{Name: "id", Type: dataset.ColumnTypeInt}}

	var caps domain.SinkCapabilities
	if err := sink.CreateTableIfNotExists(table, schema); err != nil {
		return caps
	}
	caps.CanCreate = true

	if err := sink.InsertBatch(table, []string{"id"}, [][]interface{}{{int64(1)}}); err != nil {
		return caps
	}
	caps.CanInsert = true

	if err := sink.TruncateTable(table); err != nil {
		return caps
	}
	caps.CanTruncate = true
	return caps
}
