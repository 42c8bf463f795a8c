// Package jobs provides a small background worker pool: a fixed set of
// goroutines consuming a FIFO queue of tasks, with a blocking drain.
//
// The pool is deliberately not wired into the simulation step — the core
// stays single-threaded — but parallelizes coarse work such as running
// independent world replicas.
package jobs

import (
	"sync"

	"go.uber.org/zap"
)

// Pool runs queued tasks on worker goroutines in FIFO order.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu      sync.Mutex
	idle    *sync.Cond
	pending int // queued plus mid-run tasks

	log *zap.Logger
}

// NewPool starts a pool with the given number of workers; values below one
// fall back to a single worker. A nil logger silences panic reports.
func NewPool(workers int, log *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		tasks: make(chan func(), 64),
		log:   log,
	}
	p.idle = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Enqueue queues a task for execution. Blocks while the queue buffer is
// full. Enqueueing on a closed pool panics.
func (p *Pool) Enqueue(task func()) {
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()
	p.tasks <- task
}

// WaitIdle blocks until the queue is empty and no worker is mid-task.
func (p *Pool) WaitIdle() {
	p.mu.Lock()
	for p.pending > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close stops accepting work and joins the workers once queued tasks have
// drained.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", zap.Any("panic", r))
		}
		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}()
	task()
}
