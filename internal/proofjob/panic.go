package proofjob

import (
	"context"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

// PanicMessage is the exact panic payload PanicJob raises.
const PanicMessage = "job panics unexpectedly"

// PanicJob always panics; it exists to exercise panic isolation in both
// blockingpool and internal/jobqueue's cooperative dispatch path.
type PanicJob struct {
	Cooperative bool
}

func (j PanicJob) Mode() job.Mode {
	if j.Cooperative {
		return job.Cooperative
	}
	return job.Blocking
}

func (j PanicJob) Run(ctx context.Context) job.Completion {
	panic(PanicMessage)
}

func (j PanicJob) RunSuspendable(ctx context.Context) job.Completion {
	panic(PanicMessage)
}
