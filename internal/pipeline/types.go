package pipeline

import (
	"context"
	"time"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// SalesWriter persists daily sales rows. Rows for an existing
// (item, region, date) replace the stored values.
type SalesWriter interface {
	InsertSales(ctx context.Context, records []domain.SalesRecord) error
}

// Config holds configuration for an import run
type Config struct {
	WorkerCount int // Number of concurrent file workers
	BatchSize   int // Rows written per InsertSales call
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WorkerCount: 4,
		BatchSize:   500,
	}
}

// FileJobStatus represents the state of a single file processing job
type FileJobStatus string

const (
	FileStatusQueued     FileJobStatus = "queued"
	FileStatusProcessing FileJobStatus = "processing"
	FileStatusCompleted  FileJobStatus = "completed"
	FileStatusFailed     FileJobStatus = "failed"
)

// FileJob tracks the processing of a single file
type FileJob struct {
	FilePath     string
	Status       FileJobStatus
	Rows         int
	ErrorMessage string
	Duration     time.Duration
}

// Summary reports one import run.
type Summary struct {
	Files  []FileJob
	Rows   int
	Failed int
}
