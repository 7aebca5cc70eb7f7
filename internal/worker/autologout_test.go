package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) AutoLogout(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestRunAutoLogoutSweepsUntilCancelled(t *testing.T) {
	s := &countingSweeper{err: errors.New("disk full")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunAutoLogout(ctx, s, 5*time.Millisecond, slog.New(slog.DiscardHandler))
	}()

	deadline := time.After(2 * time.Second)
	for s.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps before deadline", s.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
