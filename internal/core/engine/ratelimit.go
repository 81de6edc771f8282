package engine

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/pixlens/pixlens/internal/core"
)

// SnapshotStore persists rate limiter state across process restarts. Load is
// called once at construction; Save is called synchronously after every
// update so state is durable before the next process start.
type SnapshotStore interface {
	Load(ctx context.Context) (map[string]core.RateLimitSnapshot, error)
	Save(ctx context.Context, snapshots map[string]core.RateLimitSnapshot) error
}

// RateLimiter tracks quota for every endpoint the client has talked to.
// Entries are created lazily on first reference; a missing entry is a fresh,
// not-yet-observed state, never an error.
type RateLimiter struct {
	store  SnapshotStore
	logger *logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	states map[string]*endpointState
}

// endpointState serializes wait/observe pairs for one endpoint. Different
// endpoints are independent.
type endpointState struct {
	mu    sync.Mutex
	state *core.RateLimitState
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithStore attaches a snapshot store. Existing state is restored
// best-effort: an unreadable store starts the limiter empty.
func WithStore(ctx context.Context, store SnapshotStore) Option {
	return func(r *RateLimiter) {
		r.store = store
		snapshots, err := store.Load(ctx)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("Could not load rate limit snapshots, starting empty", zap.Error(err))
			}
			return
		}
		for endpoint, snap := range snapshots {
			state := core.NewRateLimitState()
			state.Restore(snap)
			r.states[endpoint] = &endpointState{state: state}
		}
	}
}

// WithLogger attaches a logger for sleep and persistence diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(r *RateLimiter) {
		r.logger = logger
	}
}

// WithSleep replaces the context-aware sleep, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *RateLimiter) {
		r.sleep = sleep
	}
}

// NewRateLimiter builds a limiter with no observed endpoints.
func NewRateLimiter(opts ...Option) *RateLimiter {
	r := &RateLimiter{
		states: make(map[string]*endpointState),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait suspends the caller until it is safe to send the next request on the
// endpoint. Cooldowns win over quota; an unlimited endpoint returns
// immediately; remaining quota returns immediately and is corrected by the
// next Update; an exhausted window sleeps until its reported reset.
func (r *RateLimiter) Wait(ctx context.Context, endpoint string) error {
	es := r.endpoint(endpoint)
	es.mu.Lock()
	defer es.mu.Unlock()

	delay, consumeCooldown := es.state.Delay()
	if delay <= 0 {
		return nil
	}

	if r.logger != nil {
		if consumeCooldown {
			r.logger.Warn("Cooldown active, sleeping",
				zap.String("endpoint", endpoint),
				zap.Duration("delay", delay))
		} else {
			r.logger.Warn("Quota exhausted, sleeping",
				zap.String("endpoint", endpoint),
				zap.Duration("delay", delay))
		}
	}

	if err := r.sleep(ctx, delay); err != nil {
		return err
	}

	if consumeCooldown {
		es.state.ClearCooldown()
	}
	return nil
}

// Update feeds the response headers of the latest request on the endpoint
// back into its state, and persists the full mapping if a store is attached.
func (r *RateLimiter) Update(ctx context.Context, endpoint string, headers http.Header) {
	es := r.endpoint(endpoint)
	es.mu.Lock()
	es.state.Observe(headers)
	es.mu.Unlock()

	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, r.Snapshots()); err != nil && r.logger != nil {
		r.logger.Warn("Could not persist rate limit snapshots", zap.Error(err))
	}
}

// State returns a copy of the current state for an endpoint.
func (r *RateLimiter) State(endpoint string) core.RateLimitState {
	es := r.endpoint(endpoint)
	es.mu.Lock()
	defer es.mu.Unlock()
	return *es.state
}

// Snapshots dumps every observed endpoint for persistence or display.
func (r *RateLimiter) Snapshots() map[string]core.RateLimitSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots := make(map[string]core.RateLimitSnapshot, len(r.states))
	for endpoint, es := range r.states {
		es.mu.Lock()
		snapshots[endpoint] = es.state.Snapshot()
		es.mu.Unlock()
	}
	return snapshots
}

func (r *RateLimiter) endpoint(name string) *endpointState {
	r.mu.Lock()
	defer r.mu.Unlock()

	es, ok := r.states[name]
	if !ok {
		es = &endpointState{state: core.NewRateLimitState()}
		r.states[name] = es
	}
	return es
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
