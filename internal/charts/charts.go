package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
)

// ErrNotChartable marks tables that cannot be drawn: unsupported kinds, missing
// columns or fewer than two rows.
var ErrNotChartable = errors.New("dataset cannot be charted")

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: unknown chart format %q", ErrNotChartable, s)
}

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1024
	}
	if h <= 0 {
		h = 400
	}
	return w, h
}

const histogramBins = 50

type renderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Render draws the table produced by kind in the given format.
func Render(kind string, t *dataset.Table, format Format, opts Options, w io.Writer) error {
	if t == nil || t.NumRows() < 2 {
		return fmt.Errorf("%w: need at least 2 rows", ErrNotChartable)
	}
	if opts.Title == "" {
		opts.Title = kind
	}

	var (
		r   renderer
		err error
	)
	switch kind {
	case "sine":
		r, err = lineChart(t, "x", "y", opts)
	case "waves":
		r, err = groupedLineChart(t, "x", "y", "wave", opts)
	case "timeseries":
		r, err = timeChart(t, "date", "value", opts)
	case "realtime":
		r, err = timeChart(t, "timestamp", "value", opts)
	case "scatter":
		r, err = dotChart(t, "x", "y", opts)
	case "surface":
		r, err = dotChart(t, "x", "z", opts)
	case "categorical":
		r, err = barChart(t, "category", "value", opts)
	case "distribution":
		r, err = histogram(t, "normal", histogramBins, opts)
	default:
		return fmt.Errorf("%w: no chart for kind %q", ErrNotChartable, kind)
	}
	if err != nil {
		return err
	}

	rp := chart.PNG
	if format == FormatSVG {
		rp = chart.SVG
	}
	if err := r.Render(rp, w); err != nil {
		return fmt.Errorf("%w: %v", ErrNotChartable, err)
	}
	return nil
}

func floatColumn(t *dataset.Table, name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok || !c.Numeric() {
		return nil, fmt.Errorf("%w: missing numeric column %q", ErrNotChartable, name)
	}
	return c.AsFloats(), nil
}

// yAxis pins a range when every value is equal; go-chart rejects zero-height ranges.
func yAxis(name string, ys ...[]float64) chart.YAxis {
	axis := chart.YAxis{Name: name}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range ys {
		if len(s) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(s))
		hi = math.Max(hi, floats.Max(s))
	}
	if lo == hi {
		axis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return axis
}

func newChart(opts Options, xName, yName string, series []chart.Series, ys ...[]float64) *chart.Chart {
	w, h := opts.size()
	return &chart.Chart{
		Title:      opts.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: xName},
		YAxis:      yAxis(yName, ys...),
		Series:     series,
	}
}

func lineChart(t *dataset.Table, xName, yName string, opts Options) (renderer, error) {
	xs, err := floatColumn(t, xName)
	if err != nil {
		return nil, err
	}
	ys, err := floatColumn(t, yName)
	if err != nil {
		return nil, err
	}
	series := []chart.Series{chart.ContinuousSeries{Name: yName, XValues: xs, YValues: ys}}
	return newChart(opts, xName, yName, series, ys), nil
}

func groupedLineChart(t *dataset.Table, xName, yName, groupName string, opts Options) (renderer, error) {
	xs, err := floatColumn(t, xName)
	if err != nil {
		return nil, err
	}
	ys, err := floatColumn(t, yName)
	if err != nil {
		return nil, err
	}
	groups, ok := t.Column(groupName)
	if !ok || groups.Type != dataset.ColumnTypeString {
		return nil, fmt.Errorf("%w: missing label column %q", ErrNotChartable, groupName)
	}

	var order []string
	byGroup := map[string]*chart.ContinuousSeries{}
	for i, g := range groups.Strings {
		s, ok := byGroup[g]
		if !ok {
			s = &chart.ContinuousSeries{Name: g}
			byGroup[g] = s
			order = append(order, g)
		}
		s.XValues = append(s.XValues, xs[i])
		s.YValues = append(s.YValues, ys[i])
	}
	series := make([]chart.Series, 0, len(order))
	for _, g := range order {
		series = append(series, *byGroup[g])
	}
	c := newChart(opts, xName, yName, series, ys)
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c, nil
}

func timeChart(t *dataset.Table, timeName, yName string, opts Options) (renderer, error) {
	tc, ok := t.Column(timeName)
	if !ok || tc.Type != dataset.ColumnTypeTimestamp {
		return nil, fmt.Errorf("%w: missing timestamp column %q", ErrNotChartable, timeName)
	}
	ys, err := floatColumn(t, yName)
	if err != nil {
		return nil, err
	}
	series := []chart.Series{chart.TimeSeries{Name: yName, XValues: tc.Times, YValues: ys}}
	c := newChart(opts, timeName, yName, series, ys)
	c.XAxis.ValueFormatter = chart.TimeDateValueFormatter
	return c, nil
}

func dotChart(t *dataset.Table, xName, yName string, opts Options) (renderer, error) {
	xs, err := floatColumn(t, xName)
	if err != nil {
		return nil, err
	}
	ys, err := floatColumn(t, yName)
	if err != nil {
		return nil, err
	}
	series := []chart.Series{chart.ContinuousSeries{
		Name:    yName,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColor:    chart.ColorBlue,
		},
	}}
	return newChart(opts, xName, yName, series, ys), nil
}

func barChart(t *dataset.Table, labelName, valueName string, opts Options) (renderer, error) {
	labels, ok := t.Column(labelName)
	if !ok || labels.Type != dataset.ColumnTypeString {
		return nil, fmt.Errorf("%w: missing label column %q", ErrNotChartable, labelName)
	}
	values, err := floatColumn(t, valueName)
	if err != nil {
		return nil, err
	}
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{Value: v, Label: labels.Strings[i]}
	}
	return barChartOf(bars, opts), nil
}

func barChartOf(bars []chart.Value, opts Options) *chart.BarChart {
	w, h := opts.size()
	barWidth := (w-120)/len(bars) - 4
	if barWidth < 2 {
		barWidth = 2
	}
	if barWidth > 80 {
		barWidth = 80
	}
	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	if top == 0 {
		top = 1
	}
	return &chart.BarChart{
		Title:      opts.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   barWidth,
		BarSpacing: 4,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top}},
		Bars:       bars,
	}
}

// Bins counts values into n equal-width bins over [min, max]. The last bin is closed.
func Bins(values []float64, n int) (edges []float64, counts []float64) {
	if len(values) == 0 || n <= 0 {
		return nil, nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		hi = lo + 1
	}
	edges = floats.Span(make([]float64, n+1), lo, hi)
	counts = make([]float64, n)
	width := (hi - lo) / float64(n)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		counts[i]++
	}
	return edges, counts
}

func histogram(t *dataset.Table, column string, bins int, opts Options) (renderer, error) {
	values, err := floatColumn(t, column)
	if err != nil {
		return nil, err
	}
	edges, counts := Bins(values, bins)
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		label := ""
		if i%10 == 0 {
			label = fmt.Sprintf("%.0f", (edges[i]+edges[i+1])/2)
		}
		bars[i] = chart.Value{Value: c, Label: label}
	}
	return barChartOf(bars, opts), nil
}
