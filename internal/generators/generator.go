package generators

import (
	"math/rand"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
)

// MaxRows bounds every row-count parameter.
const MaxRows = 1_000_000

// Generator produces a fresh table from loosely typed params. Params come from query
// strings, JSON bodies and YAML presets, so values may be numbers or strings.
type Generator interface {
	Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error)
	Validate(params Params) error
	Info() Info
}

// Context carries the per-call inputs that are not random: the reference time for
// generators whose timestamps end "now".
type Context struct {
	Now time.Time
}

func (c Context) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// Info describes a generator for listings.
type Info struct {
	Description string                 `json:"description" yaml:"description"`
	Columns     []dataset.ColumnSchema `json:"columns" yaml:"columns"`
	Defaults    Params                 `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// NewRand returns a generator seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
