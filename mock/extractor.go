package mock

import "github.com/fwojciec/sacamantecas"

var _ sacamantecas.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sacamantecas.Extractor.
type Extractor struct {
	ExtractFn func(profile *sacamantecas.Profile, html string) (*sacamantecas.ExtractionResult, error)
}

func (e *Extractor) Extract(profile *sacamantecas.Profile, html string) (*sacamantecas.ExtractionResult, error) {
	return e.ExtractFn(profile, html)
}
