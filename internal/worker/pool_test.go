package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countedResult implements Result
type countedResult struct {
	err error
}

func (r *countedResult) GetError() error {
	return r.err
}

// countedJob counts executions and tracks the concurrency high-water mark
type countedJob struct {
	executions *int32
	running    *int32
	peak       *int32
	hold       time.Duration
	fail       bool
}

func (j *countedJob) Execute(ctx context.Context) Result {
	if j.executions != nil {
		atomic.AddInt32(j.executions, 1)
	}
	if j.running != nil {
		now := atomic.AddInt32(j.running, 1)
		for {
			prev := atomic.LoadInt32(j.peak)
			if now <= prev || atomic.CompareAndSwapInt32(j.peak, prev, now) {
				break
			}
		}
		defer atomic.AddInt32(j.running, -1)
	}
	if j.hold > 0 {
		select {
		case <-time.After(j.hold):
		case <-ctx.Done():
			return &countedResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &countedResult{err: errors.New("execution failed")}
	}
	return &countedResult{}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	for _, n := range []int{0, -3} {
		if p := NewPool(n); p.workers != 1 {
			t.Errorf("NewPool(%d): worker count %d, want floor of 1", n, p.workers)
		}
	}
	if p := NewPool(4); p.workers != 4 {
		t.Errorf("NewPool(4): worker count %d, want 4", p.workers)
	}
}

// A batch far larger than the buffered channels can absorb must complete when
// submission runs concurrently with Drain.
func TestPool_ConcurrentSubmitAndDrain(t *testing.T) {
	const jobs = 64
	pool := NewPool(2)
	pool.Start()

	var executions int32
	go func() {
		for i := 0; i < jobs; i++ {
			pool.Submit(&countedJob{executions: &executions})
		}
		pool.CloseQueue()
	}()

	done := make(chan []Result, 1)
	go func() { done <- pool.Drain() }()

	select {
	case results := <-done:
		if len(results) != jobs {
			t.Errorf("collected %d results, want %d", len(results), jobs)
		}
		if got := atomic.LoadInt32(&executions); got != jobs {
			t.Errorf("executed %d jobs, want %d", got, jobs)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool stalled with submission outrunning the buffers")
	}
}

func TestPool_WaitCollectsSmallBatch(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var executions int32
	for i := 0; i < 6; i++ {
		pool.Submit(&countedJob{executions: &executions})
	}

	results := pool.Wait()
	if len(results) != 6 {
		t.Errorf("collected %d results, want 6", len(results))
	}
	if got := atomic.LoadInt32(&executions); got != 6 {
		t.Errorf("executed %d jobs, want 6", got)
	}
}

func TestPool_ResultsCarryJobErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&countedJob{fail: true})
	pool.Submit(&countedJob{})
	pool.Submit(&countedJob{fail: true})

	failed := 0
	for _, r := range pool.Wait() {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("got %d failed results, want 2", failed)
	}
}

func TestPool_ConcurrencyNeverExceedsWorkers(t *testing.T) {
	const workers = 4
	pool := NewPool(workers)
	pool.Start()

	var running, peak int32
	go func() {
		for i := 0; i < workers*8; i++ {
			pool.Submit(&countedJob{running: &running, peak: &peak, hold: 5 * time.Millisecond})
		}
		pool.CloseQueue()
	}()
	pool.Drain()

	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("peak concurrency %d exceeded %d workers", got, workers)
	}
}

func TestPool_ShutdownUnblocksSubmitters(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Shutdown()

	returned := make(chan struct{})
	go func() {
		pool.Submit(&countedJob{})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after Shutdown")
	}
}

func TestPool_ShutdownClosesResults(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	pool.Submit(&countedJob{hold: 500 * time.Millisecond})
	pool.Submit(&countedJob{})

	pool.Shutdown()

	drained := make(chan struct{})
	go func() {
		for range pool.results {
		}
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("results channel stayed open after Shutdown")
	}
}
