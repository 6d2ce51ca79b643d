package fetch

import (
	"context"
	"sync"
)

// State is the lifecycle stage of a Call.
type State int

const (
	Idle State = iota
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is Succeeded or Failed.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Call is a single fetch. It moves Idle -> InFlight -> Succeeded|Failed and
// settles exactly once; later results are dropped.
type Call[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	err      error
	done     chan struct{}
	deliver  func()
	attached bool
}

func newCall[T any]() *Call[T] {
	return &Call[T]{done: make(chan struct{})}
}

// State returns the current state.
func (c *Call[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed when the call settles.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call settles or ctx is done. Giving up on ctx does not
// stop the call.
func (c *Call[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then delivers the outcome to fn through d once the call settles, or right
// away if it already has. Only the first registration receives the outcome;
// Then reports false for any later one.
func (c *Call[T]) Then(d Dispatcher, fn func(T, error)) bool {
	c.mu.Lock()
	if c.attached {
		c.mu.Unlock()
		return false
	}
	c.attached = true

	if c.state.Terminal() {
		v, err := c.value, c.err
		c.mu.Unlock()
		d.Dispatch(func() { fn(v, err) })
		return true
	}
	c.deliver = func() {
		v, err := c.value, c.err
		d.Dispatch(func() { fn(v, err) })
	}
	c.mu.Unlock()
	return true
}

func (c *Call[T]) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Idle {
		c.state = InFlight
	}
}

// settle records the outcome. It reports false if the call had already
// settled.
func (c *Call[T]) settle(v T, err error) bool {
	c.mu.Lock()
	if c.state.Terminal() {
		c.mu.Unlock()
		return false
	}
	c.value, c.err = v, err
	c.state = Succeeded
	if err != nil {
		c.state = Failed
	}
	close(c.done)
	deliver := c.deliver
	c.deliver = nil
	c.mu.Unlock()

	if deliver != nil {
		deliver()
	}
	return true
}
