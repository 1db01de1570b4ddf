package service

import (
	"time"
)

// WithRetry runs fn and, if it fails, runs it exactly once more after a fixed
// delay. No backoff, no jitter; transient scoring and webhook failures either
// clear on the second attempt or surface to the caller.
func WithRetry(delay time.Duration, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	time.Sleep(delay)
	return fn()
}
