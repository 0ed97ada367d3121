package mock

import "github.com/fwojciec/sacamantecas"

var _ sacamantecas.MantecaSource = (*MantecaSource)(nil)

// MantecaSource is a mock implementation of sacamantecas.MantecaSource.
type MantecaSource struct {
	MantecasFn func() ([]sacamantecas.Manteca, error)
	CloseFn    func() error
}

func (s *MantecaSource) Mantecas() ([]sacamantecas.Manteca, error) {
	return s.MantecasFn()
}

func (s *MantecaSource) Close() error {
	return s.CloseFn()
}

var _ sacamantecas.SkimmedSink = (*SkimmedSink)(nil)

// SkimmedSink is a mock implementation of sacamantecas.SkimmedSink.
type SkimmedSink struct {
	AddMetadataFn func(row int, uri string, result *sacamantecas.ExtractionResult) error
	CloseFn       func() error
}

func (s *SkimmedSink) AddMetadata(row int, uri string, result *sacamantecas.ExtractionResult) error {
	return s.AddMetadataFn(row, uri, result)
}

func (s *SkimmedSink) Close() error {
	return s.CloseFn()
}
