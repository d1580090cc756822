// Package job defines the polymorphic unit of work the queue schedules:
// a self-declared execution mode plus one or two run entry points.
package job

import "context"

// Mode is a job's self-declared execution surface. It is fixed for the
// life of the job and is the only thing the queue inspects to decide
// where to dispatch it.
type Mode int

const (
	// Blocking marks CPU-bound work that must run on a dedicated,
	// potentially long-blocked goroutine (see internal/blockingpool).
	Blocking Mode = iota
	// Cooperative marks work that suspends at its own await points and
	// can share the ordinary goroutine scheduler.
	Cooperative
)

func (m Mode) String() string {
	switch m {
	case Blocking:
		return "blocking"
	case Cooperative:
		return "cooperative"
	default:
		return "unknown"
	}
}

// Job is the capability the queue stores behind a single heterogeneous
// slot: jobs are opaque beyond Mode and their run entry points. ctx is
// the cancel observer — Run must poll ctx.Done() between chunks of work
// and return promptly once it fires.
type Job interface {
	Mode() Mode
	Run(ctx context.Context) Completion
}

// CooperativeJob is implemented by jobs whose Mode() is Cooperative. Such a
// job suspends at its own choosing via normal Go control flow (channel
// receives, ctx.Done(), etc.); RunSuspendable carries the same
// cancel-observer contract as Run.
type CooperativeJob interface {
	Job
	RunSuspendable(ctx context.Context) Completion
}
