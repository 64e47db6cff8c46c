package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mmrzaf/datadash/internal/app"
	"github.com/mmrzaf/datadash/internal/charts"
	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/generators"
	"github.com/mmrzaf/datadash/internal/infra/repos/history"
	"github.com/mmrzaf/datadash/internal/infra/repos/presets"
	"github.com/mmrzaf/datadash/internal/infra/repos/sinks"
	"github.com/mmrzaf/datadash/internal/registry"
)

type Handler struct {
	svc *app.DatasetService
}

func NewHandler(svc *app.DatasetService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/datasets", h.ListKinds)
		r.Route("/datasets/{kind}", func(r chi.Router) {
			r.Get("/", h.GetDataset)
			r.Get("/export.csv", h.exportHandler(app.ExportCSV))
			r.Get("/export.json", h.exportHandler(app.ExportJSON))
			r.Get("/stats", h.GetStats)
			r.Get("/chart.png", h.chartHandler(charts.FormatPNG))
			r.Get("/chart.svg", h.chartHandler(charts.FormatSVG))
		})
		r.Post("/generate", h.Generate)

		r.Get("/presets", h.ListPresets)
		r.Get("/presets/{id}", h.GetPreset)

		r.Get("/sinks", h.ListSinks)
		r.Get("/sinks/{id}", h.GetSink)
		r.Post("/sinks/{id}/test", h.TestSink)
		r.Post("/push", h.Push)

		r.Get("/history", h.ListHistory)
		r.Get("/history/{id}", h.GetHistory)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) ListKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Kinds())
}

// datasetResponse is the table form returned by the dataset endpoints.
type datasetResponse struct {
	Kind       string                 `json:"kind"`
	PresetID   string                 `json:"preset_id,omitempty"`
	Seed       int64                  `json:"seed"`
	ConfigHash string                 `json:"config_hash"`
	RecordID   string                 `json:"record_id,omitempty"`
	Columns    []dataset.ColumnSchema `json:"columns"`
	Rows       [][]any                `json:"rows"`
}

func newDatasetResponse(res *app.Result) *datasetResponse {
	return &datasetResponse{
		Kind:       res.Request.Kind,
		PresetID:   res.Request.PresetID,
		Seed:       res.Seed,
		ConfigHash: res.ConfigHash,
		RecordID:   res.RecordID,
		Columns:    res.Table.Schema(),
		Rows:       res.Table.Rows(),
	}
}

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(chi.URLParam(r, "kind"), r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svc.Generate(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, newDatasetResponse(res))
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req domain.DatasetRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.svc.Generate(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, newDatasetResponse(res))
}

func (h *Handler) exportHandler(format app.ExportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := requestFromQuery(chi.URLParam(r, "kind"), r)
		if err != nil {
			writeError(w, err)
			return
		}
		d, err := h.svc.Export(req, format)
		if err != nil {
			writeError(w, err)
			return
		}
		writeDownload(w, d, true)
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(chi.URLParam(r, "kind"), r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.svc.Describe(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, st)
}

func (h *Handler) chartHandler(format charts.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := requestFromQuery(chi.URLParam(r, "kind"), r)
		if err != nil {
			writeError(w, err)
			return
		}
		opts, err := chartOptions(r)
		if err != nil {
			writeError(w, err)
			return
		}
		d, err := h.svc.Chart(req, format, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeDownload(w, d, false)
	}
}

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPresets()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPreset(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) ListSinks(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListSinks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetSink(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSink(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) TestSink(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CheckSinkByID(chi.URLParam(r, "id"))
	if res != nil {
		writeJSON(w, res)
		return
	}
	writeError(w, err)
}

func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	var req app.PushRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.svc.Push(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	list, err := h.svc.ListHistory(limit, r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetHistory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rec)
}

// Query keys that configure the request rather than the generator.
var reservedQueryKeys = map[string]bool{
	"seed": true, "preset": true, "min_value": true, "max_value": true,
	"category": true, "from": true, "to": true,
	"title": true, "width": true, "height": true,
}

// requestFromQuery builds a request for kind. Every query key that is not reserved is
// passed to the generator as a string param.
func requestFromQuery(kind string, r *http.Request) (*domain.DatasetRequest, error) {
	q := r.URL.Query()
	req := &domain.DatasetRequest{Kind: kind, PresetID: q.Get("preset")}

	params := generators.Params{}
	for key, values := range q {
		if reservedQueryKeys[key] || len(values) == 0 {
			continue
		}
		params[key] = values[len(values)-1]
	}
	if len(params) > 0 {
		req.Params = params
	}

	if s := q.Get("seed"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, dataset.InvalidParameterf("seed must be an integer, got %q", s)
		}
		req.Seed = &seed
	}
	var err error
	if req.Filters.MinValue, err = queryFloat(q.Get("min_value"), "min_value"); err != nil {
		return nil, err
	}
	if req.Filters.MaxValue, err = queryFloat(q.Get("max_value"), "max_value"); err != nil {
		return nil, err
	}
	for _, c := range q["category"] {
		for _, part := range strings.Split(c, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.Filters.Categories = append(req.Filters.Categories, part)
			}
		}
	}
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		req.Filters.DateRange = &dataset.DateRange{From: from, To: to}
	}
	return req, nil
}

func queryFloat(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, dataset.InvalidParameterf("%s must be a number, got %q", name, s)
	}
	return &v, nil
}

func chartOptions(r *http.Request) (charts.Options, error) {
	q := r.URL.Query()
	opts := charts.Options{Title: q.Get("title")}
	for _, dim := range []struct {
		key string
		dst *int
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		s := q.Get(dim.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 100 || n > 4096 {
			return opts, dataset.InvalidParameterf("%s must be between 100 and 4096, got %q", dim.key, s)
		}
		*dim.dst = n
	}
	return opts, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrUnknownKind),
		errors.Is(err, presets.ErrNotFound),
		errors.Is(err, sinks.ErrNotFound),
		errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, charts.ErrNotChartable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrHistoryDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func writeDownload(w http.ResponseWriter, d *app.Download, attachment bool) {
	w.Header().Set("Content-Type", d.ContentType)
	if attachment {
		w.Header().Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	}
	w.Header().Set("X-Dataset-Seed", strconv.FormatInt(d.Result.Seed, 10))
	_, _ = w.Write(d.Data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONStrict(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
