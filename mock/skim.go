package mock

import (
	"context"

	"github.com/fwojciec/sacamantecas"
)

var _ sacamantecas.SkimService = (*SkimService)(nil)

// SkimService is a mock implementation of sacamantecas.SkimService.
type SkimService struct {
	CreateSkimFn   func(ctx context.Context, skim *sacamantecas.Skim) error
	FindSkimByIDFn func(ctx context.Context, id string) (*sacamantecas.Skim, error)
	FindSkimsFn    func(ctx context.Context, filter sacamantecas.SkimFilter) ([]*sacamantecas.Skim, error)
	SkimmedURIsFn  func(ctx context.Context) ([]string, error)
}

func (s *SkimService) CreateSkim(ctx context.Context, skim *sacamantecas.Skim) error {
	return s.CreateSkimFn(ctx, skim)
}

func (s *SkimService) FindSkimByID(ctx context.Context, id string) (*sacamantecas.Skim, error) {
	return s.FindSkimByIDFn(ctx, id)
}

func (s *SkimService) FindSkims(ctx context.Context, filter sacamantecas.SkimFilter) ([]*sacamantecas.Skim, error) {
	return s.FindSkimsFn(ctx, filter)
}

func (s *SkimService) SkimmedURIs(ctx context.Context) ([]string, error) {
	return s.SkimmedURIsFn(ctx)
}
