package pipeline

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// WithRetry runs fn up to attempts times, backing off between tries.
// Output writes can hit transient filesystem errors on network mounts.
func WithRetry(log *slog.Logger, op string, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < attempts-1 {
			wait := Backoff(attempt)
			log.Warn("operation failed, retrying", "op", op, "attempt", attempt+1, "wait", wait, "error", err)
			time.Sleep(wait)
		}
	}
	return err
}
