package generators

import (
	"math/rand"

	"github.com/mmrzaf/datadash/internal/dataset"
)

var (
	productCategories = []string{"Product A", "Product B", "Product C", "Product D", "Product E"}
	subcategories     = []string{"Type 1", "Type 2"}
)

// Categorical returns one row per product with a value in [50, 200).
func Categorical(rng *rand.Rand) (*dataset.Table, error) {
	n := len(productCategories)
	values := make([]int64, n)
	for i := range values {
		values[i] = uniformInt(rng, 50, 200)
	}
	categories := make([]string, n)
	copy(categories, productCategories)
	return dataset.NewTable(
		dataset.StringColumn("category", categories),
		dataset.IntColumn("value", values),
		dataset.StringColumn("subcategory", choices(rng, subcategories, n)),
	)
}

type CategoricalGenerator struct{}

func (g *CategoricalGenerator) Validate(params Params) error {
	return params.onlyKeys()
}

func (g *CategoricalGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	if err := g.Validate(params); err != nil {
		return nil, err
	}
	return Categorical(rng)
}

func (g *CategoricalGenerator) Info() Info {
	return Info{
		Description: "Five products with an integer value and a subcategory",
		Columns: []dataset.ColumnSchema{
			{Name: "category", Type: dataset.ColumnTypeString},
			{Name: "value", Type: dataset.ColumnTypeInt},
			{Name: "subcategory", Type: dataset.ColumnTypeString},
		},
	}
}
