// Package slog provides log/slog decorators for sacamantecas services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sacamantecas"
)

// Ensure LoggingFetcher implements sacamantecas.Fetcher.
var _ sacamantecas.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   sacamantecas.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sacamantecas.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, uri string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", uri,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, uri)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
