package mongo

import (
	"context"
	"time"
)

// Timeouts bounds individual repository calls. Reads and writes get their
// own budget so a slow listing cannot starve inserts.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

// WithTimeout wraps ctx with timeout unless the caller already holds a
// shorter deadline, in which case that deadline wins.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
