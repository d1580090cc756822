// Package proofjob provides concrete job.Job implementations standing
// in for the node's real STARK proof generation and peer-driven
// validation work. They exist so the CLI demo and the jobqueue tests
// have something realistic to submit: a chunked loop that polls the
// cancel observer between fixed slices of "work" rather than blocking
// for the whole duration at once.
package proofjob

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

// pollInterval bounds how long a chunk of simulated work runs before
// the job re-checks its cancel observer.
const pollInterval = 10 * time.Millisecond

// ProofResult is what a ProveJob produces on Finished.
type ProofResult struct {
	ID         uuid.UUID
	Input      uint64
	Output     uint64
	FinishedAt time.Time
}

// ProveJob simulates generating a zk-STARK proof for a transaction or
// block: CPU-bound work that must run on a dedicated goroutine
// (job.Blocking) and never yields control voluntarily, only polling
// its cancel observer between chunks.
type ProveJob struct {
	ID       uuid.UUID
	Input    uint64
	Duration time.Duration
}

// NewProveJob builds a ProveJob with a fresh ID.
func NewProveJob(input uint64, duration time.Duration) *ProveJob {
	return &ProveJob{ID: uuid.New(), Input: input, Duration: duration}
}

func (j *ProveJob) Mode() job.Mode { return job.Blocking }

func (j *ProveJob) Run(ctx context.Context) job.Completion {
	deadline := time.Now().Add(j.Duration)
	for {
		select {
		case <-ctx.Done():
			return job.CancelledCompletion()
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return job.Done(ProofResult{
				ID:         j.ID,
				Input:      j.Input,
				Output:     j.Input * 2,
				FinishedAt: time.Now(),
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
