package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/generators"
	"github.com/mmrzaf/datadash/internal/registry"
)

func TestValidateRequest(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	lo := 10.0

	valid := []*domain.DatasetRequest{
		{Kind: "sine"},
		{Kind: "timeseries", Params: generators.Params{"days": 30}, Filters: dataset.FilterConfig{MinValue: &lo, Categories: []string{"A"}}},
		{Kind: "realtime", Filters: dataset.FilterConfig{DateRange: &dataset.DateRange{From: "-1h"}}},
	}
	for _, req := range valid {
		if err := v.ValidateRequest(req); err != nil {
			t.Fatalf("expected valid request %+v, got %v", req, err)
		}
	}

	nan := math.NaN()
	invalid := []*domain.DatasetRequest{
		{},
		{Kind: "sine", Params: generators.Params{"points": 0}},
		{Kind: "scatter", Params: generators.Params{"colour": "red"}},
		{Kind: "sine", Filters: dataset.FilterConfig{MaxValue: &nan}},
		{Kind: "timeseries", Filters: dataset.FilterConfig{DateRange: &dataset.DateRange{To: "yesterday"}}},
	}
	for _, req := range invalid {
		if err := v.ValidateRequest(req); !errors.Is(err, dataset.ErrInvalidParameter) {
			t.Fatalf("expected invalid parameter for %+v, got %v", req, err)
		}
	}

	if err := v.ValidateRequest(&domain.DatasetRequest{Kind: "pie"}); !errors.Is(err, registry.ErrUnknownKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestValidatePreset(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	ok := &domain.Preset{ID: "weekly-sales", Name: "Weekly sales", Kind: "timeseries", Params: generators.Params{"days": 7}}
	if err := v.ValidatePreset(ok); err != nil {
		t.Fatalf("expected valid preset, got %v", err)
	}

	for _, p := range []*domain.Preset{
		{Name: "x", Kind: "sine"},
		{ID: "../etc", Name: "x", Kind: "sine"},
		{ID: "p1", Kind: "sine"},
		{ID: "p1", Name: "x", Kind: "sine", Params: generators.Params{"amplitude": -1}},
	} {
		if err := v.ValidatePreset(p); err == nil {
			t.Fatalf("expected invalid preset %+v", p)
		}
	}
}

func TestValidateSink(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	for _, s := range []*domain.SinkConfig{
		{Name: "e1", Kind: "elasticsearch", DSN: "http://localhost:9200"},
		{Name: "p1", Kind: "postgres", DSN: "postgres://localhost/app", Schema: "analytics"},
		{Name: "s1", Kind: "sqlite", DSN: "/tmp/x.db"},
	} {
		if err := v.ValidateSink(s); err != nil {
			t.Fatalf("expected %s sink valid, got %v", s.Kind, err)
		}
	}
	for _, s := range []*domain.SinkConfig{
		{Kind: "sqlite", DSN: "/tmp/x.db"},
		{Name: "s1", Kind: "sqlite"},
		{Name: "s1", Kind: "mysql", DSN: "x"},
		{Name: "s1", Kind: "sqlite", DSN: "/tmp/x.db", Schema: "main"},
		{Name: "p1", Kind: "postgres", DSN: "postgres://localhost/app", Schema: "bad-name"},
	} {
		if err := v.ValidateSink(s); err == nil {
			t.Fatalf("expected invalid sink %+v", s)
		}
	}
}

func TestValidatePush(t *testing.T) {
	if err := ValidatePush("sine_wave", domain.TableModeAppendOnly, 1000); err != nil {
		t.Fatal(err)
	}
	if err := ValidatePush("drop table", domain.TableModeAppendOnly, 1000); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("expected invalid table, got %v", err)
	}
	if err := ValidatePush("t1", "replace", 1000); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	if err := ValidatePush("t1", domain.TableModeAppendOnly, 0); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("expected invalid batch size, got %v", err)
	}
}
