package generators

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mmrzaf/datadash/internal/dataset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const maxCorrelationSize = 100

// CorrelationMatrix returns the Pearson correlation matrix of size independent N(0,1)
// variables observed samples times. Column i is named Var_{i+1}; row i holds the
// correlations of Var_{i+1}. The diagonal is exactly 1 and entries lie in [-1, 1].
func CorrelationMatrix(rng *rand.Rand, size, samples int) (*dataset.Table, error) {
	if size < 1 || size > maxCorrelationSize {
		return nil, dataset.InvalidParameterf("size must be in [1, %d], got %d", maxCorrelationSize, size)
	}
	if err := checkCount("samples", samples, 2); err != nil {
		return nil, err
	}
	if size*samples > MaxRows {
		return nil, dataset.InvalidParameterf("size*samples must be <= %d", MaxRows)
	}

	data := make([]float64, samples*size)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	corr := mat.NewSymDense(size, nil)
	stat.CorrelationMatrix(corr, mat.NewDense(samples, size, data), nil)

	cols := make([]dataset.Column, size)
	for j := 0; j < size; j++ {
		values := make([]float64, size)
		for i := 0; i < size; i++ {
			values[i] = clampCorrelation(i, j, corr.At(i, j))
		}
		cols[j] = dataset.FloatColumn(fmt.Sprintf("Var_%d", j+1), values)
	}
	return dataset.NewTable(cols...)
}

func clampCorrelation(i, j int, v float64) float64 {
	switch {
	case i == j:
		return 1
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

type CorrelationGenerator struct{}

func (g *CorrelationGenerator) options(params Params) (size, samples int, err error) {
	if err = params.onlyKeys("size", "samples"); err != nil {
		return 0, 0, err
	}
	if size, err = params.Int("size", 10); err != nil {
		return 0, 0, err
	}
	if samples, err = params.Int("samples", 100); err != nil {
		return 0, 0, err
	}
	if size < 1 || size > maxCorrelationSize {
		return 0, 0, dataset.InvalidParameterf("size must be in [1, %d], got %d", maxCorrelationSize, size)
	}
	return size, samples, checkCount("samples", samples, 2)
}

func (g *CorrelationGenerator) Validate(params Params) error {
	_, _, err := g.options(params)
	return err
}

func (g *CorrelationGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	size, samples, err := g.options(params)
	if err != nil {
		return nil, err
	}
	return CorrelationMatrix(rng, size, samples)
}

func (g *CorrelationGenerator) Info() Info {
	return Info{
		Description: "Square Pearson correlation matrix of independent random variables (columns Var_1..Var_size)",
		Columns: []dataset.ColumnSchema{
			{Name: "Var_1", Type: dataset.ColumnTypeFloat},
		},
		Defaults: Params{"size": 10, "samples": 100},
	}
}
