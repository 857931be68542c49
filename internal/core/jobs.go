// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing the review server, the build server and the persistence layer to be
// swapped or mocked independently of the polling logic.
package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that can accept and queue
// background jobs for asynchronous processing. This interface decouples the
// event source (e.g., the build-outcome HTTP endpoint) from the job execution
// mechanism.
type JobDispatcher interface {
	// Dispatch accepts a BuildOutcome and queues it for processing.
	// It returns an error if the job cannot be queued, for example, if the
	// queue is full, providing a mechanism for backpressure.
	Dispatch(ctx context.Context, outcome *BuildOutcome) error

	// Stop closes the queue and waits for in-flight jobs to finish.
	Stop()
}

// Job represents a single, executable unit of work that can be processed by the
// application's job dispatcher. Each job is triggered by a BuildOutcome and
// performs a specific task, such as posting the result back to the review.
//
//go:generate mockgen -destination=../../mocks/mock_job.go -package=mocks . Job
type Job interface {
	// Run executes the job's logic. It receives a context for managing its
	// lifecycle and the outcome of the build that finished.
	// It returns an error if the job fails to complete successfully.
	Run(ctx context.Context, outcome *BuildOutcome) error
}
