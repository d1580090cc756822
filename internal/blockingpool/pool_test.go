package blockingpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

type fakeJob struct {
	result  any
	delay   time.Duration
	panicky bool
}

func (f *fakeJob) Mode() job.Mode { return job.Blocking }

func (f *fakeJob) Run(ctx context.Context) job.Completion {
	if f.panicky {
		panic(f.result)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return job.CancelledCompletion()
		}
	}
	return job.Done(f.result)
}

func TestPoolRunReturnsResult(t *testing.T) {
	p := New(2, 4)
	p.Start(2)
	defer p.Stop()

	c := p.Run(context.Background(), &fakeJob{result: 42})
	require.Equal(t, job.Finished, c.Kind)
	assert.Equal(t, 42, c.Result)
}

func TestPoolIsolatesPanics(t *testing.T) {
	p := New(2, 4)
	p.Start(2)
	defer p.Stop()

	c := p.Run(context.Background(), &fakeJob{result: "boom", panicky: true})
	require.Equal(t, job.Panicked, c.Kind)
	assert.Equal(t, "boom", c.Panic)

	// The panic must not have taken down the worker goroutine.
	c2 := p.Run(context.Background(), &fakeJob{result: 7})
	require.Equal(t, job.Finished, c2.Kind)
	assert.Equal(t, 7, c2.Result)
}

func TestPoolRunsConcurrentlyUpToWorkerCount(t *testing.T) {
	p := New(4, 8)
	p.Start(4)
	defer p.Stop()

	var running int32
	var maxObserved int32
	barrier := make(chan struct{})

	task := func() job.Completion {
		n := atomic.AddInt32(&running, 1)
		for {
			cur := atomic.LoadInt32(&maxObserved)
			if n <= cur || atomic.CompareAndSwapInt32(&maxObserved, cur, n) {
				break
			}
		}
		<-barrier
		atomic.AddInt32(&running, -1)
		return job.Done(nil)
	}

	results := make(chan job.Completion, 4)
	for i := 0; i < 4; i++ {
		go func() {
			results <- p.Run(context.Background(), &funcJob{fn: task})
		}()
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&running) == 4 }, time.Second, 5*time.Millisecond)
	close(barrier)

	for i := 0; i < 4; i++ {
		<-results
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&maxObserved))
}

func TestPoolStopWaitsForInFlightTask(t *testing.T) {
	p := New(1, 1)
	p.Start(1)

	started := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		p.Run(context.Background(), &funcJob{fn: func() job.Completion {
			close(started)
			time.Sleep(30 * time.Millisecond)
			close(finished)
			return job.Done(nil)
		}})
	}()

	<-started
	p.Stop()

	select {
	case <-finished:
	default:
		t.Fatal("Stop returned before the in-flight task finished")
	}
}

func TestPoolRunAfterStopReportsCancelled(t *testing.T) {
	p := New(1, 1)
	p.Start(1)
	p.Stop()

	c := p.Run(context.Background(), &fakeJob{result: 1})
	assert.Equal(t, job.Cancelled, c.Kind)
}

// funcJob adapts an arbitrary closure to job.Job for tests that need
// tighter control over timing than fakeJob's fixed delay offers.
type funcJob struct {
	fn func() job.Completion
}

func (f *funcJob) Mode() job.Mode                         { return job.Blocking }
func (f *funcJob) Run(ctx context.Context) job.Completion { return f.fn() }
