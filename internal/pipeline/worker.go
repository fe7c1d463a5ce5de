package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// Importer loads sales CSV files into a SalesWriter with a pool of workers.
type Importer struct {
	writer SalesWriter
	config Config
	read   func(path string) ([]domain.SalesRecord, error)
}

func NewImporter(writer SalesWriter, config Config) *Importer {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.BatchSize < 1 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Importer{
		writer: writer,
		config: config,
		read:   ReadSalesFile,
	}
}

// Import processes every file. A failing file does not stop the others; the
// first failure is returned after all files have been tried.
func (im *Importer) Import(ctx context.Context, files []string) (Summary, error) {
	jobs := make([]*FileJob, len(files))
	for i, file := range files {
		jobs[i] = &FileJob{FilePath: file, Status: FileStatusQueued}
	}

	err := im.processFilesParallel(ctx, jobs)

	summary := Summary{Files: make([]FileJob, 0, len(jobs))}
	for _, job := range jobs {
		summary.Files = append(summary.Files, *job)
		summary.Rows += job.Rows
		if job.Status == FileStatusFailed {
			summary.Failed++
		}
	}

	log.Info().
		Int("files", len(jobs)).
		Int("rows", summary.Rows).
		Int("failed", summary.Failed).
		Msg("sales import finished")

	return summary, err
}

// processFilesParallel processes files using a worker pool
func (im *Importer) processFilesParallel(ctx context.Context, jobs []*FileJob) error {
	workerCount := im.config.WorkerCount

	jobChan := make(chan *FileJob, len(jobs))
	errChan := make(chan error, workerCount)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				if err := im.processFile(ctx, job); err != nil {
					log.Error().Err(err).Int("worker", workerID).Str("file", job.FilePath).Msg("failed to import file")
					select {
					case errChan <- err:
					default:
					}
				}
			}
		}(i)
	}

	// Enqueue jobs
	var enqueueErr error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			enqueueErr = err
			break
		}
		jobChan <- job
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if enqueueErr != nil {
		return enqueueErr
	}
	if err := <-errChan; err != nil {
		return err
	}
	return nil
}

func (im *Importer) processFile(ctx context.Context, job *FileJob) error {
	startTime := time.Now()
	job.Status = FileStatusProcessing

	records, err := im.read(job.FilePath)
	if err != nil {
		return markJobFailed(job, fmt.Errorf("%s: %w", job.FilePath, err))
	}

	for start := 0; start < len(records); start += im.config.BatchSize {
		end := min(start+im.config.BatchSize, len(records))
		if err := im.writer.InsertSales(ctx, records[start:end]); err != nil {
			return markJobFailed(job, fmt.Errorf("%s: %w", job.FilePath, err))
		}
		job.Rows = end
	}

	job.Status = FileStatusCompleted
	job.Duration = time.Since(startTime)
	log.Debug().Str("file", job.FilePath).Int("rows", job.Rows).Dur("duration", job.Duration).Msg("file imported")

	return nil
}

func markJobFailed(job *FileJob, err error) error {
	job.Status = FileStatusFailed
	job.ErrorMessage = err.Error()
	return err
}
