package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
)

type requestHashPayload struct {
	Kind    string                 `json:"kind"`
	Params  map[string]interface{} `json:"params"`
	Filters map[string]interface{} `json:"filters"`
	Seed    int64                  `json:"seed"`
}

// HashRequest identifies the table a resolved request produces: equal hashes mean equal
// kind, params, filters and seed. The preset id is not part of it.
func HashRequest(req *domain.DatasetRequest, seed int64) (string, error) {
	p := requestHashPayload{
		Kind:    req.Kind,
		Params:  canonicalizeParams(req.Params),
		Filters: canonicalizeFilters(req.Filters),
		Seed:    seed,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalizeFilters(f dataset.FilterConfig) map[string]interface{} {
	result := make(map[string]interface{})
	if f.MinValue != nil {
		result["min_value"] = *f.MinValue
	}
	if f.MaxValue != nil {
		result["max_value"] = *f.MaxValue
	}
	if len(f.Categories) > 0 {
		cats := append([]string(nil), f.Categories...)
		sort.Strings(cats)
		result["categories"] = cats
	}
	if f.DateRange != nil && (f.DateRange.From != "" || f.DateRange.To != "") {
		result["date_range"] = map[string]string{"from": f.DateRange.From, "to": f.DateRange.To}
	}
	return result
}

func canonicalizeParams(params map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(params))
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := params[k]
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case map[string]interface{}:
			result[k] = canonicalizeParams(val)
		default:
			result[k] = val
		}
	}
	return result
}
