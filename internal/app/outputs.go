package app

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mmrzaf/datadash/internal/charts"
	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// Download is an encoded dataset or chart ready to be written to a file or response.
type Download struct {
	Data        []byte
	ContentType string
	Filename    string
	Result      *Result
}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case ExportCSV, ExportJSON:
		return ExportFormat(s), nil
	case "":
		return ExportCSV, nil
	}
	return "", dataset.InvalidParameterf("unsupported export format '%s'", s)
}

func (s *DatasetService) Export(req *domain.DatasetRequest, format ExportFormat) (*Download, error) {
	res, err := s.Generate(req)
	if err != nil {
		return nil, err
	}
	d := &Download{Result: res, Filename: res.Request.Kind + "." + string(format)}
	switch format {
	case ExportCSV:
		d.Data, err = dataset.ExportCSV(res.Table)
		d.ContentType = dataset.MIMECSV
	case ExportJSON:
		d.Data, err = dataset.ExportJSON(res.Table)
		d.ContentType = dataset.MIMEJSON
	default:
		return nil, dataset.InvalidParameterf("unsupported export format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return d, nil
}

type Stats struct {
	Kind    string                     `json:"kind" yaml:"kind"`
	Seed    int64                      `json:"seed" yaml:"seed"`
	Rows    int                        `json:"rows" yaml:"rows"`
	Columns map[string]dataset.Summary `json:"columns" yaml:"columns"`
	// Correlation is the x/y Pearson coefficient, reported for scatter data.
	Correlation *float64 `json:"correlation,omitempty" yaml:"correlation,omitempty"`
}

func (s *DatasetService) Describe(req *domain.DatasetRequest) (*Stats, error) {
	res, err := s.Generate(req)
	if err != nil {
		return nil, err
	}
	st := &Stats{
		Kind:    res.Request.Kind,
		Seed:    res.Seed,
		Rows:    res.Table.NumRows(),
		Columns: dataset.Describe(res.Table),
	}
	if res.Request.Kind == "scatter" && res.Table.NumRows() >= 2 {
		if r, err := dataset.Correlation(res.Table, "x", "y"); err == nil && !math.IsNaN(r) {
			st.Correlation = &r
		}
	}
	return st, nil
}

func (s *DatasetService) Chart(req *domain.DatasetRequest, format charts.Format, opts charts.Options) (*Download, error) {
	res, err := s.Generate(req)
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = res.Request.Kind
	}
	var buf bytes.Buffer
	if err := charts.Render(res.Request.Kind, res.Table, format, opts, &buf); err != nil {
		return nil, err
	}
	return &Download{
		Data:        buf.Bytes(),
		ContentType: format.ContentType(),
		Filename:    res.Request.Kind + "." + string(format),
		Result:      res,
	}, nil
}
