// Package jobs defines background tasks such as reporting build outcomes back
// to the review server.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sevigo/build-warden/internal/core"
)

// ErrQueueFull is returned by Dispatch when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full, cannot accept new build outcome")

// ErrDispatcherStopped is returned by Dispatch after Stop.
var ErrDispatcherStopped = errors.New("job dispatcher is stopped")

const defaultQueueSize = 100

// dispatcher implements core.JobDispatcher and manages a pool of worker goroutines
// for processing finished builds.
type dispatcher struct {
	job        core.Job                // Job implementation executed by each worker.
	jobQueue   chan *core.BuildOutcome // Queue of incoming build outcomes.
	maxWorkers int                     // Number of concurrent workers.
	wg         sync.WaitGroup          // Tracks active workers for graceful shutdown.
	logger     *slog.Logger            // Logger instance for the dispatcher.

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(job core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	return newDispatcher(job, maxWorkers, defaultQueueSize, logger)
}

func newDispatcher(job core.Job, maxWorkers, queueSize int, logger *slog.Logger) *dispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.BuildOutcome, queueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes outcomes from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting notify worker", "id", workerID)

	for outcome := range d.jobQueue {
		d.process(workerID, outcome)
	}

	d.logger.Debug("shutting down notify worker", "id", workerID)
}

func (d *dispatcher) process(workerID int, outcome *core.BuildOutcome) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"review", outcome.Review,
		"result", outcome.Result,
	)

	if err := d.job.Run(context.Background(), outcome); err != nil {
		d.logger.Error("notify job failed",
			"review", outcome.Review,
			"build", outcome.BuildName,
			"error", err,
		)
	}
}

// Dispatch queues a build outcome for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, outcome *core.BuildOutcome) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	d.logger.Info("queuing notify job", "review", outcome.Review, "result", outcome.Result)

	select {
	case d.jobQueue <- outcome:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.wg.Wait()
	d.logger.Info("all notify jobs have finished")
}
