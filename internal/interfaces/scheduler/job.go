package scheduler

import "context"

// Job is a unit of work executed by the worker pool. Different job
// types can be implemented (cleanup jobs, report jobs, notification
// jobs).
type Job interface {
	// Execute runs the job. Context should be respected for
	// cancellation and timeouts.
	Execute(ctx context.Context) error

	// Name identifies the job for logging and metrics.
	Name() string

	// Description returns a human-readable description of the job.
	Description() string
}
