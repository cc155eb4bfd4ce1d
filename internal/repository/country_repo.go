package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/es2/countrysync/internal/domain"
	"gorm.io/gorm"
)

// CountryRepository handles country and currency data operations.
type CountryRepository struct {
	db *gorm.DB
}

// NewCountryRepository creates a new CountryRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *CountryRepository: repository instance bound to db.
func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// Create inserts a country together with its currencies.
func (r *CountryRepository) Create(ctx context.Context, c *domain.Country) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetByID retrieves a country with currencies preloaded.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: country ID.
// Returns:
//   - *domain.Country: country record if found.
//   - error: wraps domain.ErrNotFound when no such country exists.
func (r *CountryRepository) GetByID(ctx context.Context, id uint) (*domain.Country, error) {
	var c domain.Country
	if err := r.withCurrencies(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "country", id)
	}
	return &c, nil
}

// GetByNumericCode retrieves a country by its ISO numeric code.
// Returns (nil, nil) when no country carries the code.
func (r *CountryRepository) GetByNumericCode(ctx context.Context, code int) (*domain.Country, error) {
	var c domain.Country
	err := r.withCurrencies(ctx).Where("numeric_code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all countries ordered by ID with currencies preloaded.
func (r *CountryRepository) List(ctx context.Context) ([]domain.Country, error) {
	var countries []domain.Country
	if err := r.withCurrencies(ctx).Order("id ASC").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

// Replace saves the country row and swaps its currency list in one transaction.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - c: persisted country whose Currencies hold the complete new list.
// Returns:
//   - error: non-nil if any write fails; nothing is committed in that case.
func (r *CountryRepository) Replace(ctx context.Context, c *domain.Country) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currencies := c.Currencies
		c.Currencies = nil

		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("failed to save country: %w", err)
		}
		if err := tx.Where("country_id = ?", c.ID).Delete(&domain.Currency{}).Error; err != nil {
			return fmt.Errorf("failed to clear currencies: %w", err)
		}
		for i := range currencies {
			currencies[i].ID = 0
			currencies[i].CountryID = c.ID
		}
		if len(currencies) > 0 {
			if err := tx.Create(&currencies).Error; err != nil {
				return fmt.Errorf("failed to insert currencies: %w", err)
			}
		}
		c.Currencies = currencies
		return nil
	})
}

// Delete removes a country and its currencies.
func (r *CountryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cleared explicitly so the cascade holds on SQLite connections without foreign_keys.
		if err := tx.Where("country_id = ?", id).Delete(&domain.Currency{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Country{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "country", id)
		}
		return nil
	})
}

// Count returns the number of stored countries.
func (r *CountryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Country{}).Count(&n).Error
	return n, err
}

func (r *CountryRepository) withCurrencies(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Currencies", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}
