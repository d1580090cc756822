package proofjob

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

// ValidationResult is what a ValidateJob produces on Finished.
type ValidationResult struct {
	ID          uuid.UUID
	BlockHeight uint64
	Valid       bool
	FinishedAt  time.Time
}

// ValidateJob simulates peer-driven block validation: work that
// suspends at its own chosen points and can share the ordinary
// goroutine scheduler (job.Cooperative), as opposed to ProveJob's
// dedicated-thread CPU work.
type ValidateJob struct {
	ID          uuid.UUID
	BlockHeight uint64
	Duration    time.Duration
}

// NewValidateJob builds a ValidateJob with a fresh ID.
func NewValidateJob(blockHeight uint64, duration time.Duration) *ValidateJob {
	return &ValidateJob{ID: uuid.New(), BlockHeight: blockHeight, Duration: duration}
}

func (j *ValidateJob) Mode() job.Mode { return job.Cooperative }

// Run satisfies job.Job; cooperative jobs are always dispatched via
// RunSuspendable, but the interface still requires Run.
func (j *ValidateJob) Run(ctx context.Context) job.Completion {
	return j.RunSuspendable(ctx)
}

func (j *ValidateJob) RunSuspendable(ctx context.Context) job.Completion {
	deadline := time.Now().Add(j.Duration)
	for {
		select {
		case <-ctx.Done():
			return job.CancelledCompletion()
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return job.Done(ValidationResult{
				ID:          j.ID,
				BlockHeight: j.BlockHeight,
				Valid:       true,
				FinishedAt:  time.Now(),
			})
		}

		chunk := pollInterval
		if remaining < chunk {
			chunk = remaining
		}
		select {
		case <-ctx.Done():
			return job.CancelledCompletion()
		case <-time.After(chunk):
		}
	}
}
