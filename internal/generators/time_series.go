package generators

import (
	"math"
	"math/rand"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
)

var timeSeriesCategories = []string{"A", "B", "C"}

type TimeSeriesOptions struct {
	Days int
	End  time.Time
}

func (o TimeSeriesOptions) validate() error {
	return checkCount("days", o.Days, 0)
}

// TimeSeries returns Days+1 daily rows ending at End. Values combine a 100->200 linear
// trend, a two-period seasonal sine of amplitude 20 and N(0, 10) noise.
func TimeSeries(rng *rand.Rand, opts TimeSeriesOptions) (*dataset.Table, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	n := opts.Days + 1

	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = opts.End.Add(-time.Duration(opts.Days-i) * 24 * time.Hour)
	}

	trend := linspace(100, 200, n)
	phase := linspace(0, 4*math.Pi, n)
	values := make([]float64, n)
	for i := range values {
		values[i] = trend[i] + 20*math.Sin(phase[i]) + normal(rng, 0, 10)
	}

	return dataset.NewTable(
		dataset.TimeColumn("date", dates),
		dataset.FloatColumn("value", values),
		dataset.StringColumn("category", choices(rng, timeSeriesCategories, n)),
	)
}

type TimeSeriesGenerator struct{}

func (g *TimeSeriesGenerator) options(ctx Context, params Params) (TimeSeriesOptions, error) {
	opts := TimeSeriesOptions{Days: 365}
	if err := params.onlyKeys("days", "end"); err != nil {
		return opts, err
	}
	var err error
	if opts.Days, err = params.Int("days", opts.Days); err != nil {
		return opts, err
	}
	if opts.End, err = params.Time("end", ctx.now()); err != nil {
		return opts, err
	}
	return opts, opts.validate()
}

func (g *TimeSeriesGenerator) Validate(params Params) error {
	_, err := g.options(Context{}, params)
	return err
}

func (g *TimeSeriesGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	opts, err := g.options(ctx, params)
	if err != nil {
		return nil, err
	}
	return TimeSeries(rng, opts)
}

func (g *TimeSeriesGenerator) Info() Info {
	return Info{
		Description: "Daily series with trend, seasonality and Gaussian noise",
		Columns: []dataset.ColumnSchema{
			{Name: "date", Type: dataset.ColumnTypeTimestamp},
			{Name: "value", Type: dataset.ColumnTypeFloat},
			{Name: "category", Type: dataset.ColumnTypeString},
		},
		Defaults: Params{"days": 365, "end": "now"},
	}
}
