package app

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/exec"
	"github.com/mmrzaf/datadash/internal/generators"
	"github.com/mmrzaf/datadash/internal/hashing"
	"github.com/mmrzaf/datadash/internal/infra/repos/history"
	"github.com/mmrzaf/datadash/internal/infra/repos/presets"
	"github.com/mmrzaf/datadash/internal/infra/repos/sinks"
	"github.com/mmrzaf/datadash/internal/logging"
	"github.com/mmrzaf/datadash/internal/registry"
	"github.com/mmrzaf/datadash/internal/validation"
)

// ErrHistoryDisabled is returned by history lookups when no store is wired.
var ErrHistoryDisabled = errors.New("generation history is not enabled")

type DatasetService struct {
	genRegistry *registry.GeneratorRegistry
	validator   *validation.Validator
	presetRepo  presets.Repository
	sinkRepo    sinks.Repository
	historyRepo history.Repository
	batchSize   int
	logger      *logging.Logger
	now         func() time.Time
}

// NewDatasetService wires the service. historyRepo may be nil, in which case nothing is
// recorded.
func NewDatasetService(
	genRegistry *registry.GeneratorRegistry,
	presetRepo presets.Repository,
	sinkRepo sinks.Repository,
	historyRepo history.Repository,
	logger *logging.Logger,
	batchSize int,
) *DatasetService {
	if batchSize <= 0 {
		batchSize = exec.DefaultBatchSize
	}
	return &DatasetService{
		genRegistry: genRegistry,
		validator:   validation.NewValidator(genRegistry),
		presetRepo:  presetRepo,
		sinkRepo:    sinkRepo,
		historyRepo: historyRepo,
		batchSize:   batchSize,
		logger:      logger.WithComponent("dataset"),
		now:         time.Now,
	}
}

// Result is one generated, filtered table together with what produced it.
type Result struct {
	Request     domain.DatasetRequest `json:"request"`
	Seed        int64                 `json:"seed"`
	ConfigHash  string                `json:"config_hash"`
	RecordID    string                `json:"record_id,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
	Table       *dataset.Table        `json:"-"`
}

type KindInfo struct {
	Kind string `json:"kind"`
	generators.Info
}

func (s *DatasetService) Kinds() []KindInfo {
	kinds := s.genRegistry.List()
	out := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		gen, err := s.genRegistry.Get(k)
		if err != nil {
			continue
		}
		out = append(out, KindInfo{Kind: k, Info: gen.Info()})
	}
	return out
}

// Resolve merges the referenced preset into req, validates the result and picks the
// seed: request seed, then preset seed, then a fresh random one.
func (s *DatasetService) Resolve(req *domain.DatasetRequest) (*domain.DatasetRequest, int64, error) {
	if req == nil {
		req = &domain.DatasetRequest{}
	}
	resolved := *req
	if req.PresetID != "" {
		preset, err := s.presetRepo.Get(req.PresetID)
		if err != nil {
			return nil, 0, err
		}
		merged, err := mergePreset(preset, req)
		if err != nil {
			return nil, 0, err
		}
		resolved = *merged
	}
	resolved.Kind = strings.ToLower(strings.TrimSpace(resolved.Kind))

	if err := s.validator.ValidateRequest(&resolved); err != nil {
		return nil, 0, err
	}

	var seed int64
	if resolved.Seed != nil {
		seed = *resolved.Seed
	} else {
		seed = generateSeed()
	}
	resolved.Seed = &seed
	return &resolved, seed, nil
}

func mergePreset(p *domain.Preset, req *domain.DatasetRequest) (*domain.DatasetRequest, error) {
	if req.Kind != "" && !strings.EqualFold(req.Kind, p.Kind) {
		return nil, dataset.InvalidParameterf("preset '%s' generates '%s', not '%s'", p.ID, p.Kind, req.Kind)
	}
	out := &domain.DatasetRequest{
		PresetID: p.ID,
		Kind:     p.Kind,
		Params:   generators.Params{},
		Seed:     p.Seed,
		Filters:  p.Filters,
	}
	for k, v := range p.Params {
		out.Params[k] = v
	}
	for k, v := range req.Params {
		out.Params[k] = v
	}
	if req.Seed != nil {
		out.Seed = req.Seed
	}
	f := req.Filters
	if f.MinValue != nil {
		out.Filters.MinValue = f.MinValue
	}
	if f.MaxValue != nil {
		out.Filters.MaxValue = f.MaxValue
	}
	if len(f.Categories) > 0 {
		out.Filters.Categories = f.Categories
	}
	if f.DateRange != nil {
		out.Filters.DateRange = f.DateRange
	}
	return out, nil
}

// Generate runs the generator for req, applies its filters and records the result.
func (s *DatasetService) Generate(req *domain.DatasetRequest) (*Result, error) {
	resolved, seed, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}
	gen, err := s.genRegistry.Get(resolved.Kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	now := s.now()
	table, err := gen.Generate(generators.NewRand(seed), generators.Context{Now: now}, resolved.Params)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", resolved.Kind, err)
	}
	table = dataset.ApplyFiltersAt(table, resolved.Filters, now)

	configHash, err := hashing.HashRequest(resolved, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash request: %w", err)
	}

	res := &Result{
		Request:     *resolved,
		Seed:        seed,
		ConfigHash:  configHash,
		GeneratedAt: now.UTC(),
		Table:       table,
	}
	duration := time.Since(start)
	s.record(res, duration)

	s.logger.Infow("dataset.generated", map[string]any{
		"kind":        resolved.Kind,
		"preset_id":   resolved.PresetID,
		"seed":        seed,
		"rows":        table.NumRows(),
		"columns":     table.NumColumns(),
		"config_hash": configHash,
		"duration_ms": duration.Milliseconds(),
	})
	return res, nil
}

func (s *DatasetService) record(res *Result, duration time.Duration) {
	if s.historyRepo == nil {
		return
	}
	params, _ := json.Marshal(res.Request.Params)
	var filters json.RawMessage
	if !res.Request.Filters.IsZero() {
		filters, _ = json.Marshal(res.Request.Filters)
	}
	rec := &domain.GenerationRecord{
		Kind:       res.Request.Kind,
		PresetID:   res.Request.PresetID,
		Params:     params,
		Filters:    filters,
		Seed:       res.Seed,
		ConfigHash: res.ConfigHash,
		Rows:       res.Table.NumRows(),
		Columns:    res.Table.Names(),
		CreatedAt:  res.GeneratedAt,
		DurationMS: duration.Milliseconds(),
	}
	if err := s.historyRepo.Create(rec); err != nil {
		s.logger.Warnw("history.record_failed", map[string]any{"kind": rec.Kind, "error": err})
		return
	}
	res.RecordID = rec.ID
}

func (s *DatasetService) ListPresets() ([]*domain.Preset, error) {
	return s.presetRepo.List()
}

func (s *DatasetService) GetPreset(id string) (*domain.Preset, error) {
	return s.presetRepo.Get(id)
}

// ValidatePresets returns the validation error of every invalid preset keyed by id.
func (s *DatasetService) ValidatePresets() (map[string]error, int, error) {
	list, err := s.presetRepo.List()
	if err != nil {
		return nil, 0, err
	}
	failures := map[string]error{}
	for _, p := range list {
		if err := s.validator.ValidatePreset(p); err != nil {
			failures[p.ID] = err
		}
	}
	return failures, len(list), nil
}

func (s *DatasetService) ValidatePreset(p *domain.Preset) error {
	return s.validator.ValidatePreset(p)
}

func (s *DatasetService) ListHistory(limit int, kind string) ([]*domain.GenerationRecord, error) {
	if s.historyRepo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.historyRepo.List(limit, kind)
}

func (s *DatasetService) GetHistory(id string) (*domain.GenerationRecord, error) {
	if s.historyRepo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.historyRepo.Get(id)
}

func generateSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
