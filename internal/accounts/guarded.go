package accounts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/providers"
)

// ErrUnavailable is returned while the guarded backend is considered down.
var ErrUnavailable = errors.New("account directory unavailable")

// BreakerState is the state of a Guarded directory.
//
//	Closed   → Open      when consecutive failures ≥ the failure threshold
//	Open     → HalfOpen  after the open timeout elapses
//	HalfOpen → Closed    on a successful call
//	HalfOpen → Open      on any failure
type BreakerState int

// Breaker states.
const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Guarded puts a circuit breaker in front of a Directory so a failing
// database makes lookups fail fast instead of stalling every avatar request.
// ErrNotFound and ErrConflict count as successful calls.
type Guarded struct {
	next Directory

	mu        sync.Mutex
	state     BreakerState
	failures  int
	threshold int
	timeout   time.Duration
	openUntil time.Time
	now       func() time.Time
}

// NewGuarded wraps next. Zero or negative values select the defaults:
// threshold 5, timeout 30s.
func NewGuarded(next Directory, threshold int, timeout time.Duration) *Guarded {
	if threshold <= 0 {
		threshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Guarded{next: next, threshold: threshold, timeout: timeout, now: time.Now}
}

// State returns the current breaker state.
func (g *Guarded) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveState()
}

// resolveState must be called with g.mu held.
func (g *Guarded) resolveState() BreakerState {
	if g.state == StateOpen && g.now().After(g.openUntil) {
		g.state = StateHalfOpen
	}
	return g.state
}

func (g *Guarded) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveState() != StateOpen
}

func (g *Guarded) record(ctx context.Context, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		g.state = StateClosed
		g.failures = 0
		return
	}
	switch g.state {
	case StateClosed:
		g.failures++
		if g.failures < g.threshold {
			return
		}
	case StateOpen:
		return
	}
	g.state = StateOpen
	g.openUntil = g.now().Add(g.timeout)
	logging.FromContext(ctx).Warn("account directory breaker opened",
		"failures", g.failures,
		"retry_after", g.timeout.String(),
		"error", err,
	)
}

func (g *Guarded) call(ctx context.Context, fn func() error) error {
	if !g.allow() {
		return ErrUnavailable
	}
	err := fn()
	g.record(ctx, err)
	return err
}

// ByID returns the account with the given id.
func (g *Guarded) ByID(ctx context.Context, id int) (u providers.User, err error) {
	err = g.call(ctx, func() error {
		u, err = g.next.ByID(ctx, id)
		return err
	})
	return u, err
}

// ByUsername returns the account with the given username.
func (g *Guarded) ByUsername(ctx context.Context, username string) (u providers.User, err error) {
	err = g.call(ctx, func() error {
		u, err = g.next.ByUsername(ctx, username)
		return err
	})
	return u, err
}

// Put writes user to the underlying directory.
func (g *Guarded) Put(ctx context.Context, user providers.User) error {
	return g.call(ctx, func() error { return g.next.Put(ctx, user) })
}

// Delete removes an account from the underlying directory.
func (g *Guarded) Delete(ctx context.Context, id int) error {
	return g.call(ctx, func() error { return g.next.Delete(ctx, id) })
}
