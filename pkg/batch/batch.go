// Package batch provides request chunking and worker-pool execution for
// carrier batch calls, plus the batch failure tally.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Chunk splits items into consecutive groups of at most size elements. The
// last chunk may be shorter; concatenating all chunks reproduces the input
// in order. A size <= 0 yields a single chunk containing the whole input.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Outcome is the result of executing one payload against the carrier.
// Results carries zero or more decoded entries (a multi-identifier payload
// can contribute several). Failed lists the identifiers the carrier reported
// no usable data for, including every identifier of a payload that failed at
// the transport level.
type Outcome[R any] struct {
	Results []R
	Failed  []string
}

// Config holds runner configuration.
type Config struct {
	// MaxConcurrency is the number of payloads in flight at once.
	// 1 (the default) executes the batch strictly sequentially.
	MaxConcurrency int

	// Timeout bounds the execution of a single payload.
	Timeout time.Duration
}

// DefaultConfig returns the sequential default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 1,
		Timeout:        30 * time.Second,
	}
}

// Runner executes a batch of payloads through a bounded worker pool and
// aggregates the per-payload outcomes. Result order follows completion
// order, not input order.
type Runner[P, R any] struct {
	config Config
	fn     func(ctx context.Context, payload P) Outcome[R]
	logger zerolog.Logger
}

// NewRunner creates a runner that executes each payload with fn.
func NewRunner[P, R any](cfg Config, logger zerolog.Logger, fn func(ctx context.Context, payload P) Outcome[R]) *Runner[P, R] {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Runner[P, R]{
		config: cfg,
		fn:     fn,
		logger: logger,
	}
}

// Run executes all payloads and returns the flattened successful results
// plus every failed identifier. Failures never abort the batch; a payload
// that errors contributes its identifiers to the failed list and the
// remaining payloads still execute.
func (r *Runner[P, R]) Run(ctx context.Context, payloads []P) ([]R, []string) {
	if len(payloads) == 0 {
		return nil, nil
	}

	start := time.Now()

	queue := make(chan P, len(payloads))
	outcomes := make(chan Outcome[R], len(payloads))

	for _, p := range payloads {
		queue <- p
	}
	close(queue)

	workers := r.config.MaxConcurrency
	if workers > len(payloads) {
		workers = len(payloads)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(ctx, queue, outcomes, &wg)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var results []R
	var failed []string
	for outcome := range outcomes {
		results = append(results, outcome.Results...)
		failed = append(failed, outcome.Failed...)
	}

	r.logger.Debug().
		Int("payloads", len(payloads)).
		Int("results", len(results)).
		Int("failed", len(failed)).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return results, failed
}

// worker drains the payload queue, honoring context cancellation between
// payloads.
func (r *Runner[P, R]) worker(ctx context.Context, queue <-chan P, outcomes chan<- Outcome[R], wg *sync.WaitGroup) {
	defer wg.Done()

	for payload := range queue {
		select {
		case <-ctx.Done():
			r.logger.Debug().Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		payloadCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
		outcome := r.fn(payloadCtx, payload)
		cancel()

		outcomes <- outcome
	}
}
