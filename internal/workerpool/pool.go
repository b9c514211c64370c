// Package workerpool provides a fixed-size pool of long-lived workers fed
// from a single unbounded FIFO queue.
//
// The pool never preempts or reorders work: each worker takes the oldest
// queued job and runs it to completion before taking the next one. A job that
// panics is recovered and counted; the worker that ran it keeps serving.
//
// Shutdown (Close) stops intake, abandons jobs that were queued but never
// started, lets running jobs finish and joins every worker.
package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/marmos91/minihttpd/internal/logger"
)

var (
	// ErrPoolClosed is returned by Execute after Close has been called.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrNilJob is returned when Execute is given a nil job.
	ErrNilJob = errors.New("nil job")

	// ErrInvalidSize is returned by New for a non-positive worker count.
	ErrInvalidSize = errors.New("worker count must be positive")
)

// Job is one unit of work. It is run exactly once by exactly one worker,
// unless the pool is closed before a worker picks it up.
type Job interface {
	Run()
}

// Abandoner is implemented by jobs that own resources which have to be
// released when the pool drops them without running them.
type Abandoner interface {
	Abandon()
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func()

func (f JobFunc) Run() { f() }

// Pool is a fixed set of workers consuming a shared FIFO queue.
type Pool struct {
	size int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Job
	closed bool

	workers sync.WaitGroup

	busy      atomic.Int64
	submitted atomic.Uint64
	completed atomic.Uint64
	panicked  atomic.Uint64
	abandoned atomic.Uint64
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Workers   int
	Queued    int
	Busy      int
	Submitted uint64
	Completed uint64
	Panicked  uint64
	Abandoned uint64
}

// New starts exactly n workers.
func New(n int) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("new pool with %d workers: %w", n, ErrInvalidSize)
	}

	p := &Pool{size: n}
	p.cond = sync.NewCond(&p.mu)

	p.workers.Add(n)
	for id := 0; id < n; id++ {
		go p.worker(id)
	}

	logger.Debug("Worker pool started with %d workers", n)
	return p, nil
}

// Execute enqueues a job and returns immediately. It only contends on the
// queue lock; it never waits for a free worker.
func (p *Pool) Execute(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.queue = append(p.queue, job)
	p.submitted.Add(1)
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// next blocks until a job is available or the pool is closed.
// The boolean is false when the worker has to exit.
func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return nil, false
	}

	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	p.busy.Add(1)
	return job, true
}

func (p *Pool) worker(id int) {
	defer p.workers.Done()

	for {
		job, ok := p.next()
		if !ok {
			logger.Debug("Worker %d stopping", id)
			return
		}
		p.run(id, job)
	}
}

// run executes one job, containing any panic so the worker survives it.
func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			logger.Error("Worker %d: job panicked: %v", id, r)
		}
		p.busy.Add(-1)
		p.completed.Add(1)
	}()

	job.Run()
}

// Close stops intake, abandons queued jobs and waits for running jobs and
// all workers to finish. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	dropped := p.queue
	p.queue = nil
	p.mu.Unlock()

	p.cond.Broadcast()

	for _, job := range dropped {
		p.abandoned.Add(1)
		if a, ok := job.(Abandoner); ok {
			a.Abandon()
		}
	}
	if len(dropped) > 0 {
		logger.Debug("Worker pool abandoned %d queued job(s)", len(dropped))
	}

	p.workers.Wait()
	logger.Debug("Worker pool stopped")
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Stats returns counters and the current queue depth.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	queued := len(p.queue)
	p.mu.Unlock()

	return Stats{
		Workers:   p.size,
		Queued:    queued,
		Busy:      int(p.busy.Load()),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Abandoned: p.abandoned.Load(),
	}
}
