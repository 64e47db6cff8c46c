package generators

import (
	"math"
	"math/rand"

	"github.com/mmrzaf/datadash/internal/dataset"
)

type SineOptions struct {
	Points    int
	Frequency float64
	Amplitude float64
	Phase     float64
}

func DefaultSineOptions() SineOptions {
	return SineOptions{Points: 1000, Frequency: 1, Amplitude: 1}
}

func (o SineOptions) validate() error {
	if err := checkCount("points", o.Points, 1); err != nil {
		return err
	}
	if o.Amplitude < 0 {
		return dataset.InvalidParameterf("amplitude must be >= 0, got %v", o.Amplitude)
	}
	return nil
}

// Sine samples y = A*sin(f*x + phase) at Points evenly spaced x over [0, 4pi].
// It draws no randomness.
func Sine(opts SineOptions) (*dataset.Table, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	x := linspace(0, 4*math.Pi, opts.Points)
	y := make([]float64, len(x))
	for i, xv := range x {
		y[i] = opts.Amplitude * math.Sin(opts.Frequency*xv+opts.Phase)
	}
	return dataset.NewTable(
		dataset.FloatColumn("x", x),
		dataset.FloatColumn("y", y),
	)
}

type SineGenerator struct{}

func (g *SineGenerator) options(params Params) (SineOptions, error) {
	opts := DefaultSineOptions()
	if err := params.onlyKeys("points", "frequency", "amplitude", "phase"); err != nil {
		return opts, err
	}
	var err error
	if opts.Points, err = params.Int("points", opts.Points); err != nil {
		return opts, err
	}
	if opts.Frequency, err = params.Float("frequency", opts.Frequency); err != nil {
		return opts, err
	}
	if opts.Amplitude, err = params.Float("amplitude", opts.Amplitude); err != nil {
		return opts, err
	}
	if opts.Phase, err = params.Float("phase", opts.Phase); err != nil {
		return opts, err
	}
	return opts, opts.validate()
}

func (g *SineGenerator) Validate(params Params) error {
	_, err := g.options(params)
	return err
}

func (g *SineGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	opts, err := g.options(params)
	if err != nil {
		return nil, err
	}
	return Sine(opts)
}

func (g *SineGenerator) Info() Info {
	d := DefaultSineOptions()
	return Info{
		Description: "Sine wave y = A*sin(f*x + phase) over [0, 4pi]",
		Columns: []dataset.ColumnSchema{
			{Name: "x", Type: dataset.ColumnTypeFloat},
			{Name: "y", Type: dataset.ColumnTypeFloat},
		},
		Defaults: Params{"points": d.Points, "frequency": d.Frequency, "amplitude": d.Amplitude, "phase": d.Phase},
	}
}
