package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferro-labs/avatars-external/providers"
)

var errBackend = errors.New("connection refused")

type flakyDirectory struct {
	*Memory
	err   error
	calls int
}

func (f *flakyDirectory) ByID(ctx context.Context, id int) (providers.User, error) {
	f.calls++
	if f.err != nil {
		return providers.User{}, f.err
	}
	return f.Memory.ByID(ctx, id)
}

func TestGuardedContract(t *testing.T) {
	runDirectoryContract(t, NewGuarded(NewMemory(), 0, 0))
}

func TestGuarded_OpensAfterThreshold(t *testing.T) {
	ctx := context.Background()
	next := &flakyDirectory{Memory: NewMemory(), err: errBackend}
	_ = next.Put(ctx, providers.User{AccountID: 1, Username: "jdoe"})

	now := time.Now()
	g := NewGuarded(next, 3, time.Minute)
	g.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := g.ByID(ctx, 1); !errors.Is(err, errBackend) {
			t.Fatalf("call %d: got %v", i, err)
		}
	}
	if g.State() != StateOpen {
		t.Fatalf("state = %s, want open", g.State())
	}

	if _, err := g.ByID(ctx, 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
	if next.calls != 3 {
		t.Errorf("open breaker must not reach the backend, got %d calls", next.calls)
	}

	// After the timeout one probe is let through; success closes the breaker.
	now = now.Add(2 * time.Minute)
	if g.State() != StateHalfOpen {
		t.Fatalf("state = %s, want half_open", g.State())
	}
	next.err = nil
	if _, err := g.ByID(ctx, 1); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if g.State() != StateClosed {
		t.Errorf("state = %s, want closed", g.State())
	}
}

func TestGuarded_HalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	next := &flakyDirectory{Memory: NewMemory(), err: errBackend}

	now := time.Now()
	g := NewGuarded(next, 1, time.Second)
	g.now = func() time.Time { return now }

	_, _ = g.ByID(ctx, 1)
	now = now.Add(2 * time.Second)
	_, _ = g.ByID(ctx, 1)
	if g.State() != StateOpen {
		t.Errorf("state = %s, want open", g.State())
	}
}

func TestGuarded_NotFoundIsHealthy(t *testing.T) {
	g := NewGuarded(NewMemory(), 1, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := g.ByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v", err)
		}
	}
	if g.State() != StateClosed {
		t.Errorf("state = %s, want closed", g.State())
	}
}

func TestGuarded_ConflictIsHealthy(t *testing.T) {
	ctx := context.Background()
	g := NewGuarded(NewMemory(), 1, time.Minute)
	_ = g.Put(ctx, providers.User{AccountID: 1, Username: "jdoe"})
	if err := g.Put(ctx, providers.User{AccountID: 2, Username: "jdoe"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v", err)
	}
	if g.State() != StateClosed {
		t.Errorf("state = %s, want closed", g.State())
	}
}
