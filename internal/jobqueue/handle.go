package jobqueue

import (
	"context"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

// Handle is the caller-held capability to cancel and/or await a
// submitted job (C4). It bundles a cancel trigger with a one-shot
// result future; dropping it does not cancel the job — a job whose
// handle is discarded keeps running and its result is delivered into a
// channel nobody reads, then discarded.
type Handle struct {
	resultCh <-chan job.Completion
	cancel   context.CancelFunc
}

// Cancel fires the cancel signal and returns immediately. Idempotent:
// firing an already-fired or already-completed job's signal is a no-op.
func (h *Handle) Cancel() {
	h.cancel()
}

// Complete awaits the result channel and yields the raw Completion —
// Finished, Cancelled, or Panicked. ctx lets the caller impose their own
// deadline (the queue itself provides none); ctx.Err() is returned if it
// expires first, leaving the job to keep running on its own.
func (h *Handle) Complete(ctx context.Context) (job.Completion, error) {
	select {
	case c, ok := <-h.resultCh:
		if !ok {
			return job.Completion{}, ErrChannelClosed
		}
		return c, nil
	case <-ctx.Done():
		return job.Completion{}, ctx.Err()
	}
}

// Result awaits completion and collapses it to a plain Go (value, error)
// pair: Finished maps to (result, nil); Cancelled and Panicked map to
// typed errors so callers that only want a success value don't have to
// switch on Completion.Kind themselves.
func (h *Handle) Result(ctx context.Context) (any, error) {
	c, err := h.Complete(ctx)
	if err != nil {
		return nil, err
	}
	switch c.Kind {
	case job.Finished:
		return c.Result, nil
	case job.Cancelled:
		return nil, ErrJobCancelled
	case job.Panicked:
		return nil, &PanicError{Payload: c.Panic}
	default:
		return nil, ErrChannelClosed
	}
}

// CancelAndAwait fires cancel, then awaits completion.
func (h *Handle) CancelAndAwait(ctx context.Context) (job.Completion, error) {
	h.Cancel()
	return h.Complete(ctx)
}

// CancelFunc returns the underlying cancel trigger directly (C4's
// cancel_sender_ref), letting a caller pass just the cancel capability
// onward without the result half of the handle.
func (h *Handle) CancelFunc() context.CancelFunc {
	return h.cancel
}

// ResultReceiver is the result-only half of a split Handle — the cancel
// capability has been discarded.
type ResultReceiver struct {
	resultCh <-chan job.Completion
}

func (r *ResultReceiver) Complete(ctx context.Context) (job.Completion, error) {
	select {
	case c, ok := <-r.resultCh:
		if !ok {
			return job.Completion{}, ErrChannelClosed
		}
		return c, nil
	case <-ctx.Done():
		return job.Completion{}, ctx.Err()
	}
}

func (r *ResultReceiver) Result(ctx context.Context) (any, error) {
	c, err := r.Complete(ctx)
	if err != nil {
		return nil, err
	}
	switch c.Kind {
	case job.Finished:
		return c.Result, nil
	case job.Cancelled:
		return nil, ErrJobCancelled
	case job.Panicked:
		return nil, &PanicError{Payload: c.Panic}
	default:
		return nil, ErrChannelClosed
	}
}

// TakeResultReceiver splits the handle: the caller keeps only the ability
// to await the result and discards the ability to cancel.
func (h *Handle) TakeResultReceiver() *ResultReceiver {
	return &ResultReceiver{resultCh: h.resultCh}
}
