package history

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mmrzaf/datadash/internal/domain"
)

var ErrNotFound = errors.New("generation record not found")

// Repository stores one record per generated dataset.
type Repository interface {
	Init() error
	Create(rec *domain.GenerationRecord) error
	Get(id string) (*domain.GenerationRecord, error)
	// List returns the newest records first, optionally restricted to one kind.
	List(limit int, kind string) ([]*domain.GenerationRecord, error)
	Close() error
}

const defaultListLimit = 50

// Open picks the backend from the DSN: postgres:// and postgresql:// URLs use
// postgres, anything else is a sqlite file path. The repository is initialized.
func Open(dsn string) (Repository, error) {
	var repo Repository
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		repo = NewPostgresRepository(dsn)
	} else {
		repo = NewSQLiteRepository(dsn)
	}
	if err := repo.Init(); err != nil {
		return nil, err
	}
	return repo, nil
}

func encodeColumns(cols []string) (string, error) {
	if cols == nil {
		cols = []string{}
	}
	b, err := json.Marshal(cols)
	return string(b), err
}

func decodeColumns(s string) []string {
	var cols []string
	if s == "" {
		return []string{}
	}
	if err := json.Unmarshal([]byte(s), &cols); err != nil {
		return []string{}
	}
	return cols
}

func rawOrNull(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
