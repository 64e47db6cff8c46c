package hashing

import (
	"testing"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/generators"
)

func TestHashRequest_StableAcrossOrderingAndPreset(t *testing.T) {
	a := &domain.DatasetRequest{
		Kind:    "timeseries",
		Params:  generators.Params{"days": 30, "end": "2024-01-01"},
		Filters: dataset.FilterConfig{Categories: []string{"B", "A"}},
	}
	b := &domain.DatasetRequest{
		PresetID: "monthly",
		Kind:     "timeseries",
		Params:   generators.Params{"end": "2024-01-01", "days": 30.0},
		Filters:  dataset.FilterConfig{Categories: []string{"A", "B"}},
	}
	h1, err := HashRequest(a, 7)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashRequest(b, 7)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatalf("expected equal hashes, got %s and %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected hex sha256, got %q", h1)
	}
}

func TestHashRequest_IncludesKindParamsFiltersAndSeed(t *testing.T) {
	lo := 5.0
	base := &domain.DatasetRequest{Kind: "sine", Params: generators.Params{"points": 100}}
	h, err := HashRequest(base, 1)
	if err != nil {
		t.Fatal(err)
	}

	variants := map[string]struct {
		req  *domain.DatasetRequest
		seed int64
	}{
		"seed":    {base, 2},
		"kind":    {&domain.DatasetRequest{Kind: "waves", Params: generators.Params{"points": 100}}, 1},
		"params":  {&domain.DatasetRequest{Kind: "sine", Params: generators.Params{"points": 101}}, 1},
		"filters": {&domain.DatasetRequest{Kind: "sine", Params: generators.Params{"points": 100}, Filters: dataset.FilterConfig{MinValue: &lo}}, 1},
	}
	for name, v := range variants {
		got, err := HashRequest(v.req, v.seed)
		if err != nil {
			t.Fatal(err)
		}
		if got == h {
			t.Fatalf("expected %s to affect hash", name)
		}
	}
}
