package generators

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/timeutil"
)

type Params map[string]interface{}

// Float reads key as a finite float64, returning def when absent.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := toFloat64(raw)
	if !ok {
		return 0, dataset.InvalidParameterf("'%s' must be a number, got %v", key, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, dataset.InvalidParameterf("'%s' must be finite", key)
	}
	return v, nil
}

// Int reads key as an integer, returning def when absent. Floats must be integral.
func (p Params) Int(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := toFloat64(raw)
	if !ok || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, dataset.InvalidParameterf("'%s' must be an integer, got %v", key, raw)
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, dataset.InvalidParameterf("'%s' is out of range: %v", key, raw)
	}
	return int(v), nil
}

// String reads key as a string, returning def when absent or blank.
func (p Params) String(key, def string) (string, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", dataset.InvalidParameterf("'%s' must be a string, got %v", key, raw)
	}
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return s, nil
}

// Time reads key through timeutil.ParseRelativeTime; absent means now.
func (p Params) Time(key string, now time.Time) (time.Time, error) {
	s, err := p.String(key, "")
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return now, nil
	}
	t, err := timeutil.ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, dataset.InvalidParameterf("'%s': %v", key, err)
	}
	return t, nil
}

// Duration reads key through timeutil.ParseDuration.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	s, err := p.String(key, "")
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	d, err := timeutil.ParseDuration(s)
	if err != nil {
		return 0, dataset.InvalidParameterf("'%s': %v", key, err)
	}
	return d, nil
}

// onlyKeys rejects params that the generator does not understand.
func (p Params) onlyKeys(allowed ...string) error {
	known := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		known[k] = struct{}{}
	}
	var unknown []string
	for k := range p {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return dataset.InvalidParameterf("unknown params: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func checkCount(name string, v, min int) error {
	if v < min {
		return dataset.InvalidParameterf("%s must be >= %d, got %d", name, min, v)
	}
	if v > MaxRows {
		return dataset.InvalidParameterf("%s must be <= %d, got %d", name, MaxRows, v)
	}
	return nil
}
