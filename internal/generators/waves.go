package generators

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mmrzaf/datadash/internal/dataset"
)

type wave struct {
	frequency, amplitude float64
}

var comparisonWaves = []wave{{1, 1}, {2, 0.5}, {3, 0.3}}

// Waves stacks three sine waves of decreasing amplitude for side-by-side comparison.
// Each wave contributes points rows labelled in the wave column.
func Waves(points int) (*dataset.Table, error) {
	if err := checkWavePoints(points); err != nil {
		return nil, err
	}
	total := points * len(comparisonWaves)
	x := make([]float64, 0, total)
	y := make([]float64, 0, total)
	labels := make([]string, 0, total)
	for i, w := range comparisonWaves {
		t, err := Sine(SineOptions{Points: points, Frequency: w.frequency, Amplitude: w.amplitude})
		if err != nil {
			return nil, err
		}
		xs, _ := t.Column("x")
		ys, _ := t.Column("y")
		label := fmt.Sprintf("Wave %d (f=%g, A=%g)", i+1, w.frequency, w.amplitude)
		x = append(x, xs.Floats...)
		y = append(y, ys.Floats...)
		for range xs.Floats {
			labels = append(labels, label)
		}
	}
	return dataset.NewTable(
		dataset.FloatColumn("x", x),
		dataset.FloatColumn("y", y),
		dataset.StringColumn("wave", labels),
	)
}

func checkWavePoints(points int) error {
	if err := checkCount("points", points, 1); err != nil {
		return err
	}
	if points*len(comparisonWaves) > MaxRows {
		return dataset.InvalidParameterf("points must be <= %d", MaxRows/len(comparisonWaves))
	}
	return nil
}

// Surface samples z = sin(sqrt(x^2 + y^2)) on a grid x grid lattice over [-5, 5]^2,
// one row per lattice point with y varying slowest.
func Surface(grid int) (*dataset.Table, error) {
	if grid < 2 || grid > 1000 {
		return nil, dataset.InvalidParameterf("grid must be in [2, 1000], got %d", grid)
	}
	axis := linspace(-5, 5, grid)
	n := grid * grid
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	zs := make([]float64, 0, n)
	for _, y := range axis {
		for _, x := range axis {
			xs = append(xs, x)
			ys = append(ys, y)
			zs = append(zs, math.Sin(math.Hypot(x, y)))
		}
	}
	return dataset.NewTable(
		dataset.FloatColumn("x", xs),
		dataset.FloatColumn("y", ys),
		dataset.FloatColumn("z", zs),
	)
}

type WavesGenerator struct{}

func (g *WavesGenerator) points(params Params) (int, error) {
	if err := params.onlyKeys("points"); err != nil {
		return 0, err
	}
	n, err := params.Int("points", 1000)
	if err != nil {
		return 0, err
	}
	return n, checkWavePoints(n)
}

func (g *WavesGenerator) Validate(params Params) error {
	_, err := g.points(params)
	return err
}

func (g *WavesGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	n, err := g.points(params)
	if err != nil {
		return nil, err
	}
	return Waves(n)
}

func (g *WavesGenerator) Info() Info {
	return Info{
		Description: "Three sine waves (f=1,A=1), (f=2,A=0.5), (f=3,A=0.3) stacked for comparison",
		Columns: []dataset.ColumnSchema{
			{Name: "x", Type: dataset.ColumnTypeFloat},
			{Name: "y", Type: dataset.ColumnTypeFloat},
			{Name: "wave", Type: dataset.ColumnTypeString},
		},
		Defaults: Params{"points": 1000},
	}
}

type SurfaceGenerator struct{}

func (g *SurfaceGenerator) grid(params Params) (int, error) {
	if err := params.onlyKeys("grid"); err != nil {
		return 0, err
	}
	n, err := params.Int("grid", 50)
	if err != nil {
		return 0, err
	}
	if n < 2 || n > 1000 {
		return 0, dataset.InvalidParameterf("grid must be in [2, 1000], got %d", n)
	}
	return n, nil
}

func (g *SurfaceGenerator) Validate(params Params) error {
	_, err := g.grid(params)
	return err
}

func (g *SurfaceGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	n, err := g.grid(params)
	if err != nil {
		return nil, err
	}
	return Surface(n)
}

func (g *SurfaceGenerator) Info() Info {
	return Info{
		Description: "3D surface z = sin(sqrt(x^2 + y^2)) sampled on a square grid",
		Columns: []dataset.ColumnSchema{
			{Name: "x", Type: dataset.ColumnTypeFloat},
			{Name: "y", Type: dataset.ColumnTypeFloat},
			{Name: "z", Type: dataset.ColumnTypeFloat},
		},
		Defaults: Params{"grid": 50},
	}
}
