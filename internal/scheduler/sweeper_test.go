package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingStore struct {
	calls atomic.Int32
	idle  atomic.Int64
}

func (c *countingStore) Sweep(idle time.Duration) int {
	c.calls.Add(1)
	c.idle.Store(int64(idle))
	return 0
}

// everyTick fires after a fixed sub-second delay, which cron descriptors round up to a second.
type everyTick time.Duration

func (e everyTick) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSweeper_RejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper(&countingStore{}, "not a cron", time.Hour, discard()); err == nil {
		t.Error("want error for invalid schedule")
	}
}

func TestSweeper_SweepsOnScheduleUntilCancelled(t *testing.T) {
	store := &countingStore{}
	s, err := NewSweeper(store, "@every 5m", 42*time.Minute, discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.schedule = everyTick(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	if store.calls.Load() < 2 {
		t.Errorf("sweep called %d times, want at least 2", store.calls.Load())
	}
	if got := time.Duration(store.idle.Load()); got != 42*time.Minute {
		t.Errorf("idle = %v, want 42m", got)
	}
}
