package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/logger"
)

// RunnerConfig holds the worker pool settings of a Runner
type RunnerConfig struct {
	Concurrency int
	QueueSize   int
}

// Runner executes independent units on a bounded worker pool
type Runner struct {
	pool pond.ResultPool[Result]
}

// NewRunner creates a runner. Units of one run execute concurrently; each unit
// keeps its own pages strictly sequential.
func NewRunner(cfg RunnerConfig) *Runner {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	opts := []pond.Option{}
	if cfg.QueueSize > 0 {
		opts = append(opts, pond.WithQueueSize(cfg.QueueSize))
	}

	return &Runner{pool: pond.NewResultPool[Result](concurrency, opts...)}
}

// Run executes the units and waits for all of them. A failing unit does not
// stop the others; the returned error joins every unit failure.
func (r *Runner) Run(ctx context.Context, units []Unit) ([]Result, error) {
	tasks := make([]pond.Result[Result], 0, len(units))
	for _, u := range units {
		tasks = append(tasks, r.pool.SubmitErr(func() (Result, error) {
			return u.Run(ctx)
		}))
	}

	results := make([]Result, 0, len(units))
	var errs []error
	for i, task := range tasks {
		result, err := task.Wait()
		if result.Unit == "" {
			result.Unit = units[i].Name()
		}
		if err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("unit %s failed: %w", units[i].Name(), err),
				zap.Int("pages", result.Pages),
				zap.String("cursor", result.Cursor))
			result.Error = err.Error()
			errs = append(errs, err)
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

// Close waits for running units and releases the pool
func (r *Runner) Close() {
	r.pool.StopAndWait()
}
