package presets

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

var ErrNotFound = errors.New("preset not found")

type Repository interface {
	List() ([]*domain.Preset, error)
	Get(id string) (*domain.Preset, error)
	GetByPath(path string) (*domain.Preset, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

// List loads every .yaml, .yml and .json file in the base directory, sorted by id.
// Files that fail to parse are skipped.
func (r *FileRepository) List() ([]*domain.Preset, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.Preset{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	presets := make([]*domain.Preset, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}

		preset, err := r.loadPreset(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		presets = append(presets, preset)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })

	return presets, nil
}

func (r *FileRepository) Get(id string) (*domain.Preset, error) {
	presets, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, p := range presets {
		if p.ID == id || p.Name == id {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetByPath loads a single file. Relative paths resolve against the base directory and
// the result must stay inside it.
func (r *FileRepository) GetByPath(path string) (*domain.Preset, error) {
	resolved, err := r.resolveInside(path)
	if err != nil {
		return nil, err
	}
	return r.loadPreset(resolved)
}

func (r *FileRepository) resolveInside(path string) (string, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", err
	}
	p := path
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	p, err = filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("preset path escapes presets directory: %s", path)
	}
	return p, nil
}

func isPresetFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func (r *FileRepository) loadPreset(path string) (*domain.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var preset domain.Preset
	ext := filepath.Ext(path)

	if ext == ".json" {
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.UseNumber()
		err = dec.Decode(&preset)
	} else {
		err = yaml.Unmarshal(data, &preset)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if preset.ID == "" {
		preset.ID = strings.TrimSuffix(filepath.Base(path), ext)
	}
	if preset.Name == "" {
		preset.Name = preset.ID
	}

	return &preset, nil
}
