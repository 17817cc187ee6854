package testutil

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/docket/internal/service"
	"github.com/nhle/docket/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(context.Background(), ":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestService wires a Service to a fresh in-memory store and a logger
// that discards output.
func NewTestService(t *testing.T, opts ...store.Option) *service.Service {
	t.Helper()
	return service.New(NewTestStore(t, opts...), log.New(io.Discard))
}

// Clock is a manually advanced clock for deterministic timestamps.
// Every call to Now returns a time one second after the previous call.
type Clock struct {
	t time.Time
}

// NewClock returns a Clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

// Now advances the clock and returns the new time.
func (c *Clock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}
