// Package jobqueue implements the prioritized, cancellable job queue:
// the submission queue and job handle (C2-C4), the intake and runner
// background tasks (C5-C6), and the queue facade (C7) that owns them.
package jobqueue

import (
	"cmp"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ChuLiYu/stark-jobqueue/internal/blockingpool"
	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

var log = slog.Default()

// pendingItem is the shared deque's element: a job paired with its
// priority and the cancel/result plumbing created for it at submission
// time.
type pendingItem[P cmp.Ordered] struct {
	job      job.Job
	priority P
	ctx      context.Context
	cancel   context.CancelFunc
	resultCh chan job.Completion
}

// deliver sends outcome on the item's result channel (buffer 1) and
// closes it. The buffer means the send does not block even when the
// handle was dropped: a result nobody will read is simply discarded.
func (it *pendingItem[P]) deliver(outcome job.Completion) {
	defer close(it.resultCh)
	select {
	case it.resultCh <- outcome:
	default:
	}
}

type submissionMsg[P cmp.Ordered] struct {
	item   *pendingItem[P]
	isStop bool
}

// currentJob is the marker the scheduler records while a job is running,
// so Stop can reach it to fire cancellation.
type currentJob struct {
	cancel context.CancelFunc
}

// Queue is the facade (C7): it owns the submission queue and the two
// background goroutines and exposes Submit plus lifecycle operations.
// P is the caller-supplied priority type; greater values run first.
type Queue[P cmp.Ordered] struct {
	sub  *unboundedQueue[submissionMsg[P]]
	wake *unboundedQueue[struct{}]

	mu      sync.Mutex
	pending []*pendingItem[P]
	current *currentJob

	intakeDone chan struct{}
	runnerDone chan struct{}

	pool    *blockingpool.Pool
	metrics Collector
}

// Collector is the subset of internal/metrics.Collector the queue needs;
// kept as an interface so the queue has no hard dependency on Prometheus
// and tests can supply a no-op or recording stub.
type Collector interface {
	RecordSubmitted()
	RecordFinished(kind job.Kind, latency time.Duration)
	SetPending(n int)
	SetRunning(n int)
}

// Option configures a Queue at construction time.
type Option[P cmp.Ordered] func(*Queue[P])

// WithMetrics attaches a Collector the queue reports job lifecycle
// events to.
func WithMetrics[P cmp.Ordered](c Collector) Option[P] {
	return func(q *Queue[P]) { q.metrics = c }
}

// New creates a queue backed by pool for blocking-mode jobs and
// immediately starts its two background tasks (intake and runner).
func New[P cmp.Ordered](pool *blockingpool.Pool, opts ...Option[P]) *Queue[P] {
	q := &Queue[P]{
		sub:        newUnboundedQueue[submissionMsg[P]](),
		wake:       newUnboundedQueue[struct{}](),
		intakeDone: make(chan struct{}),
		runnerDone: make(chan struct{}),
		pool:       pool,
	}
	for _, opt := range opts {
		opt(q)
	}
	go q.intakeLoop()
	go q.runnerLoop()
	return q
}

// Submit packages job j at priority p, enqueues it, and returns a Handle
// the caller uses to cancel or await it. Submission never blocks. It
// fails with ErrSubmissionClosed once the queue is shutting down.
func (q *Queue[P]) Submit(j job.Job, p P) (*Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())
	resultCh := make(chan job.Completion, 1)
	item := &pendingItem[P]{job: j, priority: p, ctx: ctx, cancel: cancel, resultCh: resultCh}

	if err := q.sub.Send(submissionMsg[P]{item: item}); err != nil {
		cancel()
		return nil, ErrSubmissionClosed
	}
	if q.metrics != nil {
		q.metrics.RecordSubmitted()
	}
	return &Handle{resultCh: resultCh, cancel: cancel}, nil
}

// Stop initiates an orderly shutdown: it sends Stop to the intake task
// and blocks until both background tasks have exited. Any job already
// running when Stop arrives is signaled to cancel; jobs already queued
// (each carrying its own wake tick) still run to completion before the
// runner exits — see DESIGN.md for why this queue never force-kills a
// goroutine.
func (q *Queue[P]) Stop() {
	_ = q.sub.SendAndClose(submissionMsg[P]{isStop: true})
	<-q.intakeDone
	<-q.runnerDone
}

// ShutdownTimeout behaves like Stop but gives up waiting after grace
// elapses. Go has no equivalent of aborting a running goroutine, so a
// blocking-mode job still in flight when grace elapses keeps running in
// the background; ShutdownTimeout simply stops waiting for it.
func (q *Queue[P]) ShutdownTimeout(grace time.Duration) {
	_ = q.sub.SendAndClose(submissionMsg[P]{isStop: true})
	done := make(chan struct{})
	go func() {
		<-q.intakeDone
		<-q.runnerDone
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		log.Warn("jobqueue: shutdown grace period elapsed, background tasks still draining")
	}
}

// intakeLoop is C5: it drains the submission queue, appends AddJob
// items to the pending deque, and wakes the runner. On Stop it closes
// the wake channel and, if a job is currently running, fires its cancel.
func (q *Queue[P]) intakeLoop() {
	defer close(q.intakeDone)
	for {
		m, ok := q.sub.Recv()
		if !ok {
			q.wake.Close()
			return
		}
		if m.isStop {
			q.wake.Close()
			q.mu.Lock()
			cur := q.current
			q.mu.Unlock()
			if cur != nil {
				cur.cancel()
			}
			log.Debug("jobqueue: intake observed stop")
			return
		}

		q.mu.Lock()
		q.pending = append(q.pending, m.item)
		pending := len(q.pending)
		q.mu.Unlock()
		if q.metrics != nil {
			q.metrics.SetPending(pending)
		}

		log.Debug("jobqueue: job submitted", "pending", pending)
		_ = q.wake.Send(struct{}{})
	}
}
