package fetch

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("pool closed")

// Pool runs jobs on a fixed set of worker goroutines. Every accepted job runs
// to completion, even during Close.
type Pool struct {
	jobs chan func()
	g    errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// NewPool starts workers goroutines sharing a queue of the given size.
func NewPool(workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	p := &Pool{jobs: make(chan func(), queue)}
	for range workers {
		p.g.Go(func() error {
			for job := range p.jobs {
				job()
			}
			return nil
		})
	}
	return p
}

// Submit queues job, blocking while the queue is full. It fails if ctx is
// done first or the pool is closed.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	return p.g.Wait()
}
