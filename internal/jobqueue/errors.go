package jobqueue

import (
	"errors"
	"fmt"
)

// ErrSubmissionClosed is returned by Submit when the queue's submission
// channel is closed — the queue is shutting down or already gone.
var ErrSubmissionClosed = errors.New("jobqueue: submission channel closed")

// ErrChannelClosed is returned by Handle.Complete/Result when the result
// channel was dropped without delivering a completion.
var ErrChannelClosed = errors.New("jobqueue: result channel closed without delivering a completion")

// ErrJobCancelled is returned by Handle.Result when the job's completion
// was Cancelled but the caller asked for a value.
var ErrJobCancelled = errors.New("jobqueue: job was cancelled")

// PanicError is returned by Handle.Result when the job's completion was
// Panicked; Payload preserves the original recover() value for the
// caller's own diagnostics.
type PanicError struct {
	Payload any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("jobqueue: job panicked: %v", e.Payload)
}
