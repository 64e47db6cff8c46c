package charts

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/generators"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func generate(t *testing.T, g generators.Generator, params generators.Params) *dataset.Table {
	t.Helper()
	tbl, err := g.Generate(generators.NewRand(5), generators.Context{Now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, params)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestRender_EveryChartableKind(t *testing.T) {
	cases := map[string]struct {
		gen    generators.Generator
		params generators.Params
	}{
		"sine":         {&generators.SineGenerator{}, generators.Params{"points": 50}},
		"waves":        {&generators.WavesGenerator{}, generators.Params{"points": 50}},
		"timeseries":   {&generators.TimeSeriesGenerator{}, generators.Params{"days": 30}},
		"realtime":     {&generators.RealtimeGenerator{}, generators.Params{"points": 20}},
		"scatter":      {&generators.ScatterGenerator{}, generators.Params{"points": 100}},
		"surface":      {&generators.SurfaceGenerator{}, generators.Params{"grid": 10}},
		"categorical":  {&generators.CategoricalGenerator{}, nil},
		"distribution": {&generators.DistributionGenerator{}, generators.Params{"samples": 500}},
	}
	for kind, c := range cases {
		var buf bytes.Buffer
		if err := Render(kind, generate(t, c.gen, c.params), FormatPNG, Options{Width: 640, Height: 320}, &buf); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Fatalf("%s: expected PNG output", kind)
		}
	}
}

func TestRender_SVG(t *testing.T) {
	var buf bytes.Buffer
	tbl := generate(t, &generators.SineGenerator{}, generators.Params{"points": 20})
	if err := Render("sine", tbl, FormatSVG, Options{}, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatal("expected SVG document")
	}
}

func TestRender_FlatSeries(t *testing.T) {
	var buf bytes.Buffer
	tbl := generate(t, &generators.SineGenerator{}, generators.Params{"points": 20, "amplitude": 0})
	if err := Render("sine", tbl, FormatPNG, Options{}, &buf); err != nil {
		t.Fatalf("expected flat series to render, got %v", err)
	}
}

func TestRender_NotChartable(t *testing.T) {
	corr := generate(t, &generators.CorrelationGenerator{}, generators.Params{"size": 3})
	if err := Render("correlation", corr, FormatPNG, Options{}, &bytes.Buffer{}); !errors.Is(err, ErrNotChartable) {
		t.Fatalf("expected ErrNotChartable for correlation, got %v", err)
	}

	one := generate(t, &generators.SineGenerator{}, generators.Params{"points": 1})
	if err := Render("sine", one, FormatPNG, Options{}, &bytes.Buffer{}); !errors.Is(err, ErrNotChartable) {
		t.Fatalf("expected ErrNotChartable for a single row, got %v", err)
	}

	scatter := generate(t, &generators.ScatterGenerator{}, nil)
	if err := Render("sine", scatter.Select(nil), FormatPNG, Options{}, &bytes.Buffer{}); !errors.Is(err, ErrNotChartable) {
		t.Fatalf("expected ErrNotChartable for an empty table, got %v", err)
	}
}

func TestBins(t *testing.T) {
	edges, counts := Bins([]float64{0, 1, 2, 3, 4, 10}, 5)
	if len(edges) != 6 || edges[0] != 0 || edges[5] != 10 {
		t.Fatalf("unexpected edges %v", edges)
	}
	want := []float64{2, 2, 1, 0, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("unexpected counts %v", counts)
		}
	}

	_, flat := Bins([]float64{3, 3, 3}, 4)
	if flat[0] != 3 {
		t.Fatalf("expected equal values in the first bin, got %v", flat)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatPNG || f.ContentType() != "image/png" {
		t.Fatalf("unexpected default format %q %v", f, err)
	}
	if f, err := ParseFormat("SVG"); err != nil || f.ContentType() != "image/svg+xml" {
		t.Fatalf("unexpected svg format %q %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatal("expected error for gif")
	}
}
