// Package blockingpool provides a fixed-size pool of goroutines
// dedicated to CPU-bound, blocking-mode jobs: a worker-count plus
// buffered-task-channel pool where each task carries its own completion
// channel instead of a shared result channel, since the job queue only
// ever awaits one outstanding task at a time (at most one job running).
package blockingpool

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

var log = slog.Default()

type task struct {
	ctx  context.Context
	job  job.Job
	done chan job.Completion
}

// Pool runs blocking-mode jobs on a bounded set of long-lived worker
// goroutines, isolating their panics from both each other and the
// caller awaiting Run.
type Pool struct {
	tasks  chan task
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// New creates a pool with a task buffer of bufferSize. The number of
// worker goroutines is the count later passed to Start; New's workers
// argument does not set it. Start must be called before Run.
func New(workers, bufferSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Pool{
		tasks:  make(chan task, bufferSize),
		stopCh: make(chan struct{}),
	}
}

// Start launches the worker goroutines. Calling it more than once is a
// no-op.
func (p *Pool) Start(workers int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			t.done <- p.execute(t)
		}
	}
}

// execute runs a job's blocking Run method, turning any panic into a
// Panicked completion rather than letting it unwind the worker
// goroutine — this is the blocking-surface half of panic isolation;
// internal/jobqueue.runCooperative is the other half.
func (p *Pool) execute(t task) (result job.Completion) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("blockingpool: job panicked", "panic", r)
			result = job.PanickedCompletion(r)
		}
	}()
	return t.job.Run(t.ctx)
}

// Run hands j to the next free worker and blocks until it finishes. If
// the pool has been stopped before the job could be accepted, it
// reports Cancelled rather than hanging forever.
func (p *Pool) Run(ctx context.Context, j job.Job) job.Completion {
	select {
	case <-p.stopCh:
		return job.CancelledCompletion()
	default:
	}
	done := make(chan job.Completion, 1)
	select {
	case p.tasks <- task{ctx: ctx, job: j, done: done}:
	case <-p.stopCh:
		return job.CancelledCompletion()
	}
	return <-done
}

// Stop signals every worker to exit after its current task and waits
// for them to do so. Workers mid-task still run to completion; Stop
// does not interrupt them (the pool has no power to, same as the
// queue's own forced-shutdown limitation).
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
}
