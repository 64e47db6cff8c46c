package sinks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmrzaf/datadash/internal/domain"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("sink not found")

type Repository interface {
	List() ([]*domain.SinkConfig, error)
	Get(id string) (*domain.SinkConfig, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.SinkConfig, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.SinkConfig{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	sinks := make([]*domain.SinkConfig, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}

		sink, err := loadSink(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		sinks = append(sinks, sink)
	}
	sort.Slice(sinks, func(i, j int) bool { return sinks[i].ID < sinks[j].ID })

	return sinks, nil
}

func (r *FileRepository) Get(id string) (*domain.SinkConfig, error) {
	sinks, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, s := range sinks {
		if s.ID == id || s.Name == id {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func loadSink(path string) (*domain.SinkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sink domain.SinkConfig
	ext := filepath.Ext(path)

	if ext == ".json" {
		err = json.Unmarshal(data, &sink)
	} else {
		err = yaml.Unmarshal(data, &sink)
	}

	if err != nil {
		return nil, err
	}

	if sink.ID == "" {
		sink.ID = strings.TrimSuffix(filepath.Base(path), ext)
	}
	sink.DSN = os.ExpandEnv(sink.DSN)

	return &sink, nil
}
