package worker

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrPoolClosed is returned by Submit after Wait or Shutdown
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrPoolNotStarted is returned by Submit before Start
	ErrPoolNotStarted = errors.New("worker pool not started")
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job
type Result interface {
	Err() error
}

// indexed carries the submission order of a job through the pool
type indexed struct {
	seq    int
	job    Job
	result Result
}

// Pool runs jobs on a fixed number of workers and returns
// results in submission order.
type Pool struct {
	workers int
	jobs    chan indexed
	done    chan indexed
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	submitted int
	closed    bool
	results   []Result
	collected chan struct{}
}

// NewPool creates a pool with the given number of workers (minimum 1)
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:   workers,
		jobs:      make(chan indexed, workers*2),
		done:      make(chan indexed, workers*2),
		collected: make(chan struct{}),
	}
}

// Start launches the workers. Cancelling ctx stops pending jobs.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.jobs {
		if err := p.ctx.Err(); err != nil {
			item.result = canceled{err: err}
		} else {
			item.result = item.job.Execute(p.ctx)
		}
		p.done <- item
	}
}

// collect drains finished jobs so workers never block on a full results buffer
func (p *Pool) collect() {
	defer close(p.collected)

	for item := range p.done {
		p.mu.Lock()
		for len(p.results) <= item.seq {
			p.results = append(p.results, nil)
		}
		p.results[item.seq] = item.result
		p.mu.Unlock()
	}
}

// Submit queues a job. It blocks while the queue is full and must not
// be called concurrently with Wait.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	if p.ctx == nil {
		p.mu.Unlock()
		return ErrPoolNotStarted
	}
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	seq := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case p.jobs <- indexed{seq: seq, job: job}:
		return nil
	case <-p.ctx.Done():
		// Keep the result slot so Wait stays aligned with submissions
		p.done <- indexed{seq: seq, result: canceled{err: p.ctx.Err()}}
		return p.ctx.Err()
	}
}

// Wait closes the queue, waits for every submitted job and returns the
// results in submission order.
func (p *Pool) Wait() []Result {
	p.mu.Lock()
	if p.ctx == nil {
		p.mu.Unlock()
		return nil
	}
	if p.closed {
		p.mu.Unlock()
		<-p.collected
		return p.snapshot()
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	close(p.done)
	<-p.collected
	p.cancel()

	return p.snapshot()
}

// Shutdown cancels running jobs and waits for the workers to exit
func (p *Pool) Shutdown() []Result {
	if p.cancel != nil {
		p.cancel()
	}
	return p.Wait()
}

func (p *Pool) snapshot() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Result, len(p.results))
	copy(out, p.results)
	return out
}

// canceled is the result of a job that never ran
type canceled struct {
	err error
}

func (c canceled) Err() error { return c.err }
