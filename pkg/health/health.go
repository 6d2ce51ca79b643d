// Package health serves liveness and readiness probes for the catalog stub.
//
// Every registered probe runs on its own ticker. A probe turns unhealthy
// after failureThreshold consecutive failures and healthy again after
// successThreshold consecutive passes.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

const (
	failureThreshold = 3
	successThreshold = 1
)

// CheckFunc reports nil when the checked dependency is usable.
type CheckFunc func(ctx context.Context) error

// probe is observed by a single goroutine; the counters are owned by it.
// healthy and lastErr are read concurrently by the endpoints.
type probe struct {
	name    string
	timeout time.Duration
	check   CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails  int
	passes int
}

func newProbe(name string, timeout time.Duration, check CheckFunc) *probe {
	p := &probe{name: name, timeout: timeout, check: check}
	p.healthy.Store(true)
	return p
}

func (p *probe) err() error {
	if e := p.lastErr.Load(); e != nil {
		return *e
	}
	return nil
}

func (p *probe) observe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.passes = 0
		p.fails++
		if p.fails >= failureThreshold {
			p.healthy.Store(false)
		}
		return
	}
	p.fails = 0
	p.passes++
	if p.passes >= successThreshold {
		p.healthy.Store(true)
	}
}

// Health holds the stub's probes and its manual readiness flag.
type Health struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*probe
	readiness []*probe
	cancel    context.CancelFunc
}

// New returns a Health that is not ready until SetReady(true).
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a probe reported by /livez.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newProbe(name, timeout, check))
}

// AddReadinessCheck registers a probe reported by /readyz.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, newProbe(name, timeout, check))
}

// Start observes every registered probe immediately and then once per
// interval until Stop or ctx cancellation.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := slices.Concat(h.liveness, h.readiness)
	h.mu.Unlock()

	for _, p := range probes {
		go watch(ctx, p, interval)
	}
}

func watch(ctx context.Context, p *probe, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.observe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.observe(ctx)
		}
	}
}

// SetReady flips the manual readiness flag. The stub clears it before
// draining on shutdown.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the flag is set and every readiness probe passes.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.readiness {
		if !p.healthy.Load() {
			return false
		}
	}
	return true
}

// Stop ends the probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// LiveEndpoint answers /livez.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	failures := collectFailures(h.liveness)
	h.mu.RUnlock()

	writeStatus(w, failures)
}

// ReadyEndpoint answers /readyz.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	failures := collectFailures(h.readiness)
	h.mu.RUnlock()

	if !h.ready.Load() {
		failures = append(failures, failure{name: "_readiness", msg: "service is not ready"})
	}
	writeStatus(w, failures)
}

type failure struct {
	name string
	msg  string
}

func collectFailures(probes []*probe) []failure {
	var out []failure
	for _, p := range probes {
		if p.healthy.Load() {
			continue
		}
		msg := "check is unhealthy"
		if err := p.err(); err != nil {
			msg = err.Error()
		}
		out = append(out, failure{name: p.name, msg: msg})
	}
	return out
}

// writeStatus renders {"status":"ok"} or
// {"status":"unhealthy","checks":{name:msg}} with 503.
func writeStatus(w http.ResponseWriter, failures []failure) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		if len(failures) == 0 {
			e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
			return
		}
		e.Field("status", func(e *jx.Encoder) { e.Str("unhealthy") })
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, f := range failures {
					e.Field(f.name, func(e *jx.Encoder) { e.Str(f.msg) })
				}
			})
		})
	})

	w.Header().Set("Content-Type", "application/json")
	if len(failures) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = w.Write(e.Bytes())
}
