package service

import (
	"context"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/repository"
)

// ProviderService manages the MDM provider directory.
type ProviderService struct {
	repo *repository.ProviderRepository
}

func NewProviderService(repo *repository.ProviderRepository) *ProviderService {
	return &ProviderService{repo: repo}
}

func (s *ProviderService) Create(ctx context.Context, in domain.ProviderPayload) (domain.ProviderPayload, error) {
	p := &domain.Provider{}
	p.Apply(in)
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.ProviderPayload{}, err
	}
	return p.Payload(), nil
}

func (s *ProviderService) List(ctx context.Context) ([]domain.ProviderPayload, error) {
	providers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProviderPayload, 0, len(providers))
	for i := range providers {
		out = append(out, providers[i].Payload())
	}
	return out, nil
}

// Get returns a provider or an error wrapping domain.ErrNotFound.
func (s *ProviderService) Get(ctx context.Context, id uint) (domain.ProviderPayload, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ProviderPayload{}, err
	}
	return p.Payload(), nil
}

// Update overwrites name, category, URL and description of an existing provider.
func (s *ProviderService) Update(ctx context.Context, id uint, in domain.ProviderPayload) (domain.ProviderPayload, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ProviderPayload{}, err
	}
	p.Apply(in)
	if err := s.repo.Update(ctx, p); err != nil {
		return domain.ProviderPayload{}, err
	}
	return p.Payload(), nil
}

func (s *ProviderService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
