package jobs

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := NewPool(4, nil)
	defer p.Close()

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		p.Enqueue(func() { count.Add(1) })
	}
	p.WaitIdle()

	if got := count.Load(); got != 100 {
		t.Errorf("expected 100 tasks run, got %d", got)
	}
}

func TestWaitIdleBlocksUntilDrained(t *testing.T) {
	p := NewPool(2, nil)
	defer p.Close()

	var done atomic.Bool
	p.Enqueue(func() {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	})
	p.WaitIdle()

	if !done.Load() {
		t.Error("WaitIdle returned before the task finished")
	}
}

func TestWaitIdleOnEmptyPool(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Close()

	// Must not block.
	p.WaitIdle()
}

func TestSingleWorkerPreservesFIFO(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Close()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		p.Enqueue(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	p.WaitIdle()

	for i, v := range order {
		if v != i {
			t.Fatalf("task %d ran out of order: %v", i, order)
		}
	}
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Close()

	var ran atomic.Bool
	p.Enqueue(func() { panic("boom") })
	p.Enqueue(func() { ran.Store(true) })
	p.WaitIdle()

	if !ran.Load() {
		t.Error("worker died after a panicking task")
	}
}

func TestZeroWorkersFallsBackToOne(t *testing.T) {
	p := NewPool(0, nil)
	defer p.Close()

	var ran atomic.Bool
	p.Enqueue(func() { ran.Store(true) })
	p.WaitIdle()

	if !ran.Load() {
		t.Error("pool with zero workers never ran the task")
	}
}

func TestReuseAfterWaitIdle(t *testing.T) {
	p := NewPool(2, nil)
	defer p.Close()

	var count atomic.Int64
	p.Enqueue(func() { count.Add(1) })
	p.WaitIdle()
	p.Enqueue(func() { count.Add(1) })
	p.WaitIdle()

	if got := count.Load(); got != 2 {
		t.Errorf("expected 2 tasks run across two drains, got %d", got)
	}
}
