package notifications

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher runs notification side-effects off the request path. Every
// failure is logged here, once, instead of at each call site; nothing
// propagates back to the caller and nothing is retried.
type Dispatcher struct {
	log     *slog.Logger
	timeout time.Duration
}

func NewDispatcher(log *slog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Dispatcher{log: log, timeout: timeout}
}

func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.log.Warn("notification failed",
				slog.String("notification", name),
				slog.String("error", err.Error()),
			)
		}
	}()
}
