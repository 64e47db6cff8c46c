package exec

import (
	"fmt"
	"time"

	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
)

// Sink is a destination for pushed datasets. Tables are created from the dataset
// schema; rows arrive in column order.
type Sink interface {
	Connect() error
	Close() error
	CreateTableIfNotExists(table string, schema []dataset.ColumnSchema) error
	TruncateTable(table string) error
	InsertBatch(table string, columns []string, rows [][]interface{}) error
}

const DefaultBatchSize = 1000

type Executor struct {
	batchSize int
	// OnBatch, if set, is called after every successful batch with the running row total.
	OnBatch func(rowsWritten int64)
}

func NewExecutor(batchSize int) *Executor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Executor{batchSize: batchSize}
}

// Push writes every row of t into table on sink. The sink is connected and closed here.
func (e *Executor) Push(t *dataset.Table, sink Sink, table, mode string) (*domain.PushStats, error) {
	startTime := time.Now()
	if mode == "" {
		mode = domain.TableModeCreateIfMissing
	}
	stats := &domain.PushStats{Table: table, Mode: mode}

	if err := sink.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to sink: %w", err)
	}
	defer sink.Close()

	switch mode {
	case domain.TableModeCreateIfMissing:
		if err := sink.CreateTableIfNotExists(table, t.Schema()); err != nil {
			return nil, fmt.Errorf("failed to create table '%s': %w", table, err)
		}
	case domain.TableModeTruncateThenInsert:
		if err := sink.CreateTableIfNotExists(table, t.Schema()); err != nil {
			return nil, fmt.Errorf("failed to create table '%s': %w", table, err)
		}
		if err := sink.TruncateTable(table); err != nil {
			return nil, fmt.Errorf("failed to truncate table '%s': %w", table, err)
		}
	case domain.TableModeAppendOnly:
	default:
		return nil, fmt.Errorf("unknown table mode: %s", mode)
	}

	columnNames := t.Names()
	n := t.NumRows()
	batch := make([][]interface{}, 0, e.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := sink.InsertBatch(table, columnNames, batch); err != nil {
			return fmt.Errorf("failed to insert batch %d into '%s': %w", stats.Batches+1, table, err)
		}
		stats.Batches++
		stats.RowsWritten += int64(len(batch))
		if e.OnBatch != nil {
			e.OnBatch(stats.RowsWritten)
		}
		batch = batch[:0]
		return nil
	}

	for rowIdx := 0; rowIdx < n; rowIdx++ {
		batch = append(batch, t.Row(rowIdx))
		if len(batch) >= e.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	stats.DurationSeconds = time.Since(startTime).Seconds()
	return stats, nil
}
