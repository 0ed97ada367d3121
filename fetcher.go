package sacamantecas

import "context"

// Fetcher retrieves the HTML of a catalog page as UTF-8 text.
type Fetcher interface {
	// Fetch retrieves the page at uri, following meta-refresh redirects
	// and decoding the body to UTF-8 where the implementation supports it.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, uri string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-host rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
