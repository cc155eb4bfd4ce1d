package repository

import (
	"context"

	"github.com/es2/countrysync/internal/domain"
	"gorm.io/gorm"
)

// ProviderRepository handles provider data operations.
type ProviderRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new ProviderRepository.
func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProviderRepository) Update(ctx context.Context, p *domain.Provider) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GetByID retrieves a provider, wrapping domain.ErrNotFound when absent.
func (r *ProviderRepository) GetByID(ctx context.Context, id uint) (*domain.Provider, error) {
	var p domain.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "provider", id)
	}
	return &p, nil
}

func (r *ProviderRepository) List(ctx context.Context) ([]domain.Provider, error) {
	var providers []domain.Provider
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Delete removes a provider, wrapping domain.ErrNotFound when nothing was deleted.
func (r *ProviderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Provider{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "provider", id)
	}
	return nil
}
