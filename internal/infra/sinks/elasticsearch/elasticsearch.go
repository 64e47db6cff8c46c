package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
)

// ElasticsearchSink writes rows as documents; a "table" is an index.
type ElasticsearchSink struct {
	baseURL string
	client  *http.Client
}

func NewElasticsearchSink(dsn string) *ElasticsearchSink {
	return &ElasticsearchSink{baseURL: normalizeURL(dsn)}
}

func (s *ElasticsearchSink) Connect() error {
	s.client = &http.Client{Timeout: 15 * time.Second}
	_, err := s.ServerVersion()
	return err
}

func (s *ElasticsearchSink) Close() error { return nil }

func (s *ElasticsearchSink) ServerVersion() (string, error) {
	resp, err := s.httpClient().Get(s.baseURL + "/")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("elasticsearch ping failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var root struct {
		Version struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		return "", err
	}
	return root.Version.Number, nil
}

func (s *ElasticsearchSink) httpClient() *http.Client {
	if s.client == nil {
		s.client = &http.Client{Timeout: 15 * time.Second}
	}
	return s.client
}

// CreateTableIfNotExists creates the index with an explicit mapping derived from the
// dataset schema.
func (s *ElasticsearchSink) CreateTableIfNotExists(table string, schema []dataset.ColumnSchema) error {
	payload, err := json.Marshal(IndexMapping(schema))
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, s.baseURL+"/"+toIndexName(table), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "resource_already_exists_exception") {
		return nil
	}
	return fmt.Errorf("elasticsearch create index failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func IndexMapping(schema []dataset.ColumnSchema) map[string]any {
	props := make(map[string]any, len(schema))
	for _, col := range schema {
		props[col.Name] = map[string]string{"type": mapColumnType(col.Type)}
	}
	return map[string]any{"mappings": map[string]any{"properties": props}}
}

func mapColumnType(colType dataset.ColumnType) string {
	switch colType {
	case dataset.ColumnTypeInt:
		return "long"
	case dataset.ColumnTypeFloat:
		return "double"
	case dataset.ColumnTypeTimestamp:
		return "date"
	default:
		return "keyword"
	}
}

func (s *ElasticsearchSink) TruncateTable(table string) error {
	payload := []byte(`{"query":{"match_all":{}}}`)
	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/"+toIndexName(table)+"/_delete_by_query?refresh=true", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elasticsearch truncate failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (s *ElasticsearchSink) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	indexName := toIndexName(table)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(map[string]any{"index": map[string]string{"_index": indexName}}); err != nil {
			return err
		}
		doc := make(map[string]any, len(columns))
		for i, col := range columns {
			doc[col] = row[i]
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/_bulk", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("elasticsearch bulk insert failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var bulkResp struct {
		Errors bool `json:"errors"`
	}
	_ = json.Unmarshal(body, &bulkResp)
	if bulkResp.Errors {
		return fmt.Errorf("elasticsearch bulk insert returned errors")
	}
	return nil
}

func normalizeURL(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "http://localhost:9200"
	}
	if strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") {
		return strings.TrimRight(dsn, "/")
	}
	return "http://" + strings.TrimRight(dsn, "/")
}

func toIndexName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return url.PathEscape(name)
}
