package jobqueue

import (
	"context"
	"sort"
	"time"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

// runnerLoop is C6: await a wake tick, then drain every pending item the
// tick (and any ticks already buffered ahead of it) represents, one at a
// time, before going back to waiting. It exits once the wake channel is
// closed and fully drained — which only happens after intake has
// observed Stop, by which point every AddJob ever sent has produced
// exactly one tick, so nothing is left stranded in the pending deque.
func (q *Queue[P]) runnerLoop() {
	defer close(q.runnerDone)
	for {
		_, ok := q.wake.Recv()
		if !ok {
			return
		}
		q.drainPending()
	}
}

func (q *Queue[P]) drainPending() {
	for {
		item, ok := q.popNext()
		if !ok {
			// Spurious wake: the tick's corresponding item was already
			// popped by an earlier drain pass. Nothing to do.
			return
		}

		started := time.Now()
		outcome := q.dispatch(item)
		latency := time.Since(started)

		q.mu.Lock()
		q.current = nil
		q.mu.Unlock()

		item.deliver(outcome)

		log.Info("jobqueue: job finished", "outcome", outcome.Kind.String(), "latency", latency)
		if q.metrics != nil {
			q.metrics.RecordFinished(outcome.Kind, latency)
		}
	}
}

// popNext re-sorts the pending deque by descending priority (stable, so
// equal priorities keep FIFO-by-submission order), pops the front, and
// installs it as the current job — all under the shared lock, so the
// pending deque is only ever mutated while held. The sort happens
// here, at pop time, not at insertion: it lets a high-priority job
// submitted while a lower one waits leapfrog it.
func (q *Queue[P]) popNext() (*pendingItem[P], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil, false
	}

	sort.SliceStable(q.pending, func(i, j int) bool {
		return q.pending[i].priority > q.pending[j].priority
	})

	item := q.pending[0]
	q.pending = q.pending[1:]
	if q.metrics != nil {
		q.metrics.SetPending(len(q.pending))
		q.metrics.SetRunning(1)
	}
	q.current = &currentJob{cancel: item.cancel}
	return item, true
}

// dispatch sends item onto the execution surface its job's Mode()
// declares and awaits its termination, translating whatever happens
// there into a job.Completion. A panic inside a job never reaches here
// as a panic — both execution surfaces recover() it first.
func (q *Queue[P]) dispatch(item *pendingItem[P]) job.Completion {
	switch item.job.Mode() {
	case job.Blocking:
		return q.pool.Run(item.ctx, item.job)
	case job.Cooperative:
		coop, ok := item.job.(job.CooperativeJob)
		if !ok {
			return job.PanickedCompletion("jobqueue: job declared Cooperative mode but does not implement job.CooperativeJob")
		}
		return runCooperative(item.ctx, coop)
	default:
		return job.PanickedCompletion("jobqueue: job declared an unknown mode")
	}
}

// runCooperative spawns a cooperative job onto an ordinary goroutine —
// Go's own scheduler is already the shared cooperative scheduler, so no
// separate executor is needed the way a blocking job needs a dedicated
// pool.
func runCooperative(ctx context.Context, j job.CooperativeJob) job.Completion {
	done := make(chan job.Completion, 1)
	go func() {
		var result job.Completion
		defer func() {
			if r := recover(); r != nil {
				result = job.PanickedCompletion(r)
			}
			done <- result
		}()
		result = j.RunSuspendable(ctx)
	}()
	return <-done
}
