package crawl

import (
	"context"
	"time"

	"github.com/mfurman/provdir"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for navigation retries:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// NavigateWithRetry navigates the view to the URL with exponential
// backoff retry logic. It retries up to 3 times (4 total attempts) with
// delays of 1s, 2s, 4s. The logger function, if provided, is called for
// each retry attempt.
func NavigateWithRetry(ctx context.Context, view provdir.DocumentView, url string, logger LogFunc) error {
	return NavigateWithRetryDelays(ctx, view, url, logger, DefaultRetryDelays())
}

// NavigateWithRetryDelays is like NavigateWithRetry but allows
// configurable delays. This is useful for testing without waiting for
// real delays.
func NavigateWithRetryDelays(ctx context.Context, view provdir.DocumentView, url string, logger LogFunc, delays []time.Duration) error {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := view.Navigate(ctx, url)
		if err == nil {
			return nil
		}
		lastErr = err

		// A page that does not exist will not appear on retry.
		if provdir.ErrorCode(err) == provdir.ENOTFOUND {
			return err
		}

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
