package generators

import (
	"math/rand"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
)

var (
	sensorNames    = []string{"Sensor A", "Sensor B", "Sensor C"}
	sensorStatuses = []string{"Normal", "Warning", "Critical"}
	statusWeights  = []float64{0.7, 0.2, 0.1}
)

type RealtimeOptions struct {
	Points  int
	Cadence time.Duration
	Offset  float64
	End     time.Time
}

func DefaultRealtimeOptions(end time.Time) RealtimeOptions {
	return RealtimeOptions{Points: 100, Cadence: time.Minute, Offset: 100, End: end}
}

func (o RealtimeOptions) validate() error {
	if err := checkCount("points", o.Points, 1); err != nil {
		return err
	}
	if o.Cadence <= 0 {
		return dataset.InvalidParameterf("cadence must be > 0, got %s", o.Cadence)
	}
	return nil
}

// Realtime simulates sensor readings: timestamps every Cadence ending at End and a
// random walk (cumulative N(0,1) steps) shifted by Offset.
func Realtime(rng *rand.Rand, opts RealtimeOptions) (*dataset.Table, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	n := opts.Points

	stamps := make([]time.Time, n)
	for i := range stamps {
		stamps[i] = opts.End.Add(-time.Duration(n-1-i) * opts.Cadence)
	}

	values := make([]float64, n)
	walk := 0.0
	for i := range values {
		walk += rng.NormFloat64()
		values[i] = opts.Offset + walk
	}

	categories := choices(rng, sensorNames, n)
	statuses := make([]string, n)
	for i := range statuses {
		statuses[i] = weightedChoice(rng, sensorStatuses, statusWeights)
	}

	return dataset.NewTable(
		dataset.TimeColumn("timestamp", stamps),
		dataset.FloatColumn("value", values),
		dataset.StringColumn("category", categories),
		dataset.StringColumn("status", statuses),
	)
}

type RealtimeGenerator struct{}

func (g *RealtimeGenerator) options(ctx Context, params Params) (RealtimeOptions, error) {
	opts := DefaultRealtimeOptions(ctx.now())
	if err := params.onlyKeys("points", "cadence", "offset", "end"); err != nil {
		return opts, err
	}
	var err error
	if opts.Points, err = params.Int("points", opts.Points); err != nil {
		return opts, err
	}
	if opts.Cadence, err = params.Duration("cadence", opts.Cadence); err != nil {
		return opts, err
	}
	if opts.Offset, err = params.Float("offset", opts.Offset); err != nil {
		return opts, err
	}
	if opts.End, err = params.Time("end", opts.End); err != nil {
		return opts, err
	}
	return opts, opts.validate()
}

func (g *RealtimeGenerator) Validate(params Params) error {
	_, err := g.options(Context{}, params)
	return err
}

func (g *RealtimeGenerator) Generate(rng *rand.Rand, ctx Context, params Params) (*dataset.Table, error) {
	opts, err := g.options(ctx, params)
	if err != nil {
		return nil, err
	}
	return Realtime(rng, opts)
}

func (g *RealtimeGenerator) Info() Info {
	return Info{
		Description: "Simulated sensor stream: random-walk values with weighted status",
		Columns: []dataset.ColumnSchema{
			{Name: "timestamp", Type: dataset.ColumnTypeTimestamp},
			{Name: "value", Type: dataset.ColumnTypeFloat},
			{Name: "category", Type: dataset.ColumnTypeString},
			{Name: "status", Type: dataset.ColumnTypeString},
		},
		Defaults: Params{"points": 100, "cadence": "1m", "offset": 100.0, "end": "now"},
	}
}
