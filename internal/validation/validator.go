package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/registry"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// identifier validation: sink table and schema names are interpolated into SQL.
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	presetIDRe    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

func IsValidMode(mode string) bool {
	switch mode {
	case domain.TableModeCreateIfMissing, domain.TableModeTruncateThenInsert, domain.TableModeAppendOnly:
		return true
	}
	return false
}

// ValidateRequest checks a request whose preset, if any, has already been merged in.
// Parameter problems wrap dataset.ErrInvalidParameter; an unknown kind wraps
// registry.ErrUnknownKind.
func (v *Validator) ValidateRequest(req *domain.DatasetRequest) error {
	if req == nil {
		return dataset.InvalidParameterf("request is required")
	}
	if strings.TrimSpace(req.Kind) == "" {
		return dataset.InvalidParameterf("either kind or preset_id must be provided")
	}
	gen, err := v.genRegistry.Get(req.Kind)
	if err != nil {
		return err
	}
	if err := gen.Validate(req.Params); err != nil {
		return fmt.Errorf("kind '%s': %w", req.Kind, err)
	}
	if err := validateFilters(req.Filters); err != nil {
		return err
	}
	return nil
}

func validateFilters(f dataset.FilterConfig) error {
	if err := f.Validate(time.Now()); err != nil {
		return fmt.Errorf("filters: %w", err)
	}
	return nil
}

func (v *Validator) ValidatePreset(p *domain.Preset) error {
	if p.ID == "" {
		return errors.New("preset id is required")
	}
	if !presetIDRe.MatchString(p.ID) {
		return fmt.Errorf("invalid preset id: %s", p.ID)
	}
	if p.Name == "" {
		return errors.New("preset name is required")
	}
	if p.Kind == "" {
		return errors.New("preset kind is required")
	}
	req := &domain.DatasetRequest{Kind: p.Kind, Params: p.Params, Seed: p.Seed, Filters: p.Filters}
	if err := v.ValidateRequest(req); err != nil {
		return fmt.Errorf("preset '%s': %w", p.ID, err)
	}
	return nil
}

func (v *Validator) ValidateSink(s *domain.SinkConfig) error {
	if s.Name == "" {
		return dataset.InvalidParameterf("sink name is required")
	}
	if s.Kind == "" {
		return dataset.InvalidParameterf("sink kind is required")
	}
	if s.DSN == "" {
		return dataset.InvalidParameterf("sink dsn is required")
	}

	switch s.Kind {
	case domain.SinkKindPostgres:
		if s.Schema != "" && !IsValidIdentifier(s.Schema) {
			return dataset.InvalidParameterf("invalid sink schema identifier: %s", s.Schema)
		}
	case domain.SinkKindSQLite, domain.SinkKindElasticsearch:
		if s.Schema != "" {
			return dataset.InvalidParameterf("%s sinks must not set schema", s.Kind)
		}
	default:
		return dataset.InvalidParameterf("unsupported sink kind: %s", s.Kind)
	}

	return nil
}

// ValidatePush checks the destination of a push before any connection is made.
func ValidatePush(table, mode string, batchSize int) error {
	if !IsValidIdentifier(table) {
		return dataset.InvalidParameterf("invalid table identifier: %s", table)
	}
	if !IsValidMode(mode) {
		return dataset.InvalidParameterf("invalid mode: %s", mode)
	}
	if batchSize <= 0 {
		return dataset.InvalidParameterf("batch size must be > 0, got %d", batchSize)
	}
	return nil
}
