package mock

import "github.com/fwojciec/sacamantecas"

var _ sacamantecas.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of sacamantecas.Resolver.
type Resolver struct {
	ResolveFn func(uri string) (*sacamantecas.Resolution, error)
}

func (r *Resolver) Resolve(uri string) (*sacamantecas.Resolution, error) {
	return r.ResolveFn(uri)
}
