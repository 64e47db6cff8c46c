package generators

import (
	"math/rand"

	"github.com/mmrzaf/datadash/internal/dataset"
)

var scatterGroups = []string{"Group 1", "Group 2", "Group 3"}

// Scatter returns points rows of correlated (x, y) pairs: x ~ N(0,1), y = 2x + 0.5*N(0,1),
// with a random group and a marker size in [10, 100).
func Scatter(rng *rand.Rand, points int) (*dataset.Table, error) {
	if err := checkCount("points", points, 1); err != nil {
		return nil, err
	}
	x := make([]float64, points)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	y := make([]float64, points)
	for i := range y {
		y[i] = 2*x[i] + normal(rng, 0, 0.5)
	}
	groups := choices(rng, scatterGroups, points)
	sizes := make([]int64, points)
	for i := range sizes {
		sizes[i] = uniformInt(rng, 10, 100)
	}
	return dataset.NewTable(
		dataset.FloatColumn("x", x),
		dataset.FloatColumn("y", y),
		dataset.StringColumn("group", groups),
		dataset.IntColumn("size", sizes),
	)
}

type ScatterGenerator struct{}

func (g *ScatterGenerator) points(params Params) (int, error) {
	if err := params.onlyKeys("points"); err != nil {
		return 0, err
	}
	n, err := params.Int("points", 500)
	if err != nil {
		return 0, err
	}
	return n, checkCount("points", n, 1)
}

func (g *ScatterGenerator) Validate(params Params) error {
	_, err := g.points(params)
	return err
}

func (g *ScatterGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	n, err := g.points(params)
	if err != nil {
		return nil, err
	}
	return Scatter(rng, n)
}

func (g *ScatterGenerator) Info() Info {
	return Info{
		Description: "Correlated x/y points with group and marker size",
		Columns: []dataset.ColumnSchema{
			{Name: "x", Type: dataset.ColumnTypeFloat},
			{Name: "y", Type: dataset.ColumnTypeFloat},
			{Name: "group", Type: dataset.ColumnTypeString},
			{Name: "size", Type: dataset.ColumnTypeInt},
		},
		Defaults: Params{"points": 500},
	}
}
