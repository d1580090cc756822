package job

import "fmt"

// Kind discriminates the terminal states a job can produce. It is the
// tag half of the Completion sum type; Go has no native tagged union so
// the payload fields below are only meaningful for their matching Kind.
type Kind int

const (
	// Finished means the job returned a result value normally.
	Finished Kind = iota
	// Cancelled means the job observed the cancel signal and returned
	// voluntarily, or the runtime tore it down before it could finish.
	Cancelled
	// Panicked means the job's goroutine unwound; Panic carries the
	// original recover() value.
	Panicked
)

func (k Kind) String() string {
	switch k {
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	case Panicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// Completion is the terminal outcome of a job, delivered exactly once
// on the job's result channel.
type Completion struct {
	Kind   Kind
	Result any // valid when Kind == Finished
	Panic  any // valid when Kind == Panicked
}

// Done builds a Finished completion carrying result.
func Done(result any) Completion {
	return Completion{Kind: Finished, Result: result}
}

// CancelledCompletion builds a Cancelled completion.
func CancelledCompletion() Completion {
	return Completion{Kind: Cancelled}
}

// PanickedCompletion builds a Panicked completion carrying the original
// recover() payload.
func PanickedCompletion(payload any) Completion {
	return Completion{Kind: Panicked, Panic: payload}
}

func (c Completion) String() string {
	switch c.Kind {
	case Finished:
		return fmt.Sprintf("Finished(%v)", c.Result)
	case Cancelled:
		return "Cancelled"
	case Panicked:
		return fmt.Sprintf("Panicked(%v)", c.Panic)
	default:
		return "Unknown"
	}
}
