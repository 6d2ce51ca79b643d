package fetch

import (
	"context"
	"sync"
)

// Dispatcher runs callbacks on the caller's execution context.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

// Dispatch calls f(fn).
func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks directly on the goroutine that settles the call.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

var _ Dispatcher = (*Loop)(nil)

// Loop is a sequential dispatcher: callbacks queue up and run one at a time,
// in arrival order, on whichever goroutine calls Run. Dispatch never blocks,
// so callbacks may themselves dispatch or start fetches.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Dispatch queues fn. Callbacks dispatched after Stop are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	select {
	case <-l.stop:
		l.mu.Unlock()
		return
	default:
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes queued callbacks until Stop is called or ctx is done.
// Callbacks queued before Stop still run.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.drain()

		select {
		case <-l.wake:
		case <-l.stop:
			l.drain()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop makes Run return. It is safe to call more than once and from inside a
// callback.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		close(l.stop)
		l.mu.Unlock()
	})
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}
