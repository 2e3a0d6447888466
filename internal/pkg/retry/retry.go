package retry

import (
	"context"
	"time"
)

// Do runs fn up to attempts times with exponential backoff starting at
// baseDelay. It returns the last error when all attempts fail. Intended
// for transient storage failures at the collaborator boundary only;
// workflow logic never retries.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := baseDelay
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
			delay *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
