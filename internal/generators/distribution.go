package generators

import (
	"math/rand"

	"github.com/mmrzaf/datadash/internal/dataset"
)

const (
	normalMean       = 100
	normalStd        = 15
	exponentialScale = 50
)

// Distribution draws samples rows from N(100, 15) and Exp(1/50).
func Distribution(rng *rand.Rand, samples int) (*dataset.Table, error) {
	if err := checkCount("samples", samples, 1); err != nil {
		return nil, err
	}
	norm := make([]float64, samples)
	for i := range norm {
		norm[i] = normal(rng, normalMean, normalStd)
	}
	exp := make([]float64, samples)
	for i := range exp {
		exp[i] = rng.ExpFloat64() * exponentialScale
	}
	return dataset.NewTable(
		dataset.FloatColumn("normal", norm),
		dataset.FloatColumn("exponential", exp),
	)
}

type DistributionGenerator struct{}

func (g *DistributionGenerator) samples(params Params) (int, error) {
	if err := params.onlyKeys("samples"); err != nil {
		return 0, err
	}
	n, err := params.Int("samples", 1000)
	if err != nil {
		return 0, err
	}
	return n, checkCount("samples", n, 1)
}

func (g *DistributionGenerator) Validate(params Params) error {
	_, err := g.samples(params)
	return err
}

func (g *DistributionGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	n, err := g.samples(params)
	if err != nil {
		return nil, err
	}
	return Distribution(rng, n)
}

func (g *DistributionGenerator) Info() Info {
	return Info{
		Description: "Normal (mean 100, std 15) and exponential (scale 50) samples",
		Columns: []dataset.ColumnSchema{
			{Name: "normal", Type: dataset.ColumnTypeFloat},
			{Name: "exponential", Type: dataset.ColumnTypeFloat},
		},
		Defaults: Params{"samples": 1000},
	}
}
