package worker

import (
	"context"
	"log/slog"
	"time"
)

type Sweeper interface {
	AutoLogout(ctx context.Context) (int, error)
}

// RunAutoLogout sweeps once immediately and then every interval until ctx is
// cancelled. Errors are logged and the loop keeps going.
func RunAutoLogout(ctx context.Context, s Sweeper, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		if n, err := s.AutoLogout(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("auto-logout sweep failed", "err", err)
		} else if n > 0 {
			log.Debug("auto-logout sweep", "closed", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
