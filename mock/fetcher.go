package mock

import (
	"context"

	"github.com/fwojciec/sacamantecas"
)

var _ sacamantecas.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sacamantecas.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, uri string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, uri string) (string, error) {
	return f.FetchFn(ctx, uri)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ sacamantecas.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sacamantecas.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
