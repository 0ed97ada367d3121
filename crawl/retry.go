package crawl

import (
	"context"
	"time"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, uri string) (string, error)

// RetryFunc is called before each retry with the 2-based attempt number
// and the error that caused it.
type RetryFunc func(uri string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, making one attempt more than
// there are delays and sleeping delays[i] before retry i. Context errors are
// returned as soon as they are seen.
func FetchWithRetry(ctx context.Context, uri string, fetch FetchFunc, onRetry RetryFunc, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			if onRetry != nil {
				onRetry(uri, attempt+1, lastErr)
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		html, err := fetch(ctx, uri)
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", lastErr
}
