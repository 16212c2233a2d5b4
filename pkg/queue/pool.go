package queue

import (
	"context"
	"fmt"
	"sync"
)

// Pool is a bounded worker pool for offloading blocking calls. Work is
// submitted as closures and executed by a fixed number of workers, so a
// single slow job occupies one worker without stalling the rest.
type Pool struct {
	workers int
	jobs    chan func()
	quit    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
}

// PoolOption configures Pool.
type PoolOption func(*poolConfig)

type poolConfig struct {
	Workers   int // number of workers
	QueueSize int // size of the pending-job queue
}

// WithWorkers sets the number of workers.
func WithWorkers(n int) PoolOption {
	return func(c *poolConfig) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithQueueSize sets the pending-job buffer size.
func WithQueueSize(n int) PoolOption {
	return func(c *poolConfig) {
		if n > 0 {
			c.QueueSize = n
		}
	}
}

// NewPool creates a pool. Call Start before submitting work.
func NewPool(opts ...PoolOption) *Pool {
	cfg := &poolConfig{
		Workers:   8,
		QueueSize: 256,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Pool{
		workers: cfg.Workers,
		jobs:    make(chan func(), cfg.QueueSize),
		quit:    make(chan struct{}),
	}
}

// Start launches the workers. Idempotent.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		}
	}
}

// Submit enqueues a job, blocking until there is queue space or the context
// is done. Returns an error if the pool is stopped or the context expires.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	if job == nil {
		return fmt.Errorf("job is nil")
	}
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("pool not running")
	}
	p.mu.Unlock()

	select {
	case p.jobs <- job:
		return nil
	case <-p.quit:
		return fmt.Errorf("pool stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop signals workers to exit, waits for in-flight jobs to finish, then
// runs any jobs still queued. Every job accepted by Submit reaches a
// terminal state, so futures never leak.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.quit)
	p.wg.Wait()

	for {
		select {
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		default:
			return
		}
	}
}

// Workers returns the configured parallelism.
func (p *Pool) Workers() int { return p.workers }
