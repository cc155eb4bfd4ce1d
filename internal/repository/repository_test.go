package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/es2/countrysync/internal/config"
	"github.com/es2/countrysync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}, models...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestJobRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(openTestDB(t, DEMModels()...))

	job := &domain.IngestionJob{MDMProviderID: 5, MDMSyncURL: "http://mdm/countries/callback", Status: domain.JobStatusPending}
	require.NoError(t, repo.Create(ctx, job))
	require.NotZero(t, job.ID)

	require.NoError(t, job.Transition(domain.JobStatusProcessing, "resolving provider"))
	require.NoError(t, repo.Save(ctx, job))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, got.Status)
	assert.Equal(t, "resolving provider", got.StatusMessage)

	second := &domain.IngestionJob{MDMProviderID: 6, Status: domain.JobStatusPending}
	require.NoError(t, repo.Create(ctx, second))

	pending, err := repo.ListByStatus(ctx, domain.JobStatusPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProviderRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepository(openTestDB(t, MDMModels()...))

	p := &domain.Provider{Name: "Rest Countries", APIURL: "https://restcountries.com/v3.1"}
	require.NoError(t, repo.Create(ctx, p))

	p.Category = "geo"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "geo", got.Category)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrNotFound)
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountryRepositoryReplaceSwapsCurrencies(t *testing.T) {
	ctx := context.Background()
	repo := NewCountryRepository(openTestDB(t, MDMModels()...))

	c := domain.NewCountry(domain.CountryPayload{
		CountryName: "Brazil",
		NumericCode: intPtr(76),
		Currencies:  []domain.CurrencyPayload{{CurrencyCode: "BRL", CurrencyName: strPtr("Brazilian real")}},
	})
	require.NoError(t, repo.Create(ctx, c))

	found, err := repo.GetByNumericCode(ctx, 76)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Currencies, 1)

	found.Apply(domain.CountryPayload{
		CountryName: "Brazil",
		CapitalCity: strPtr("Brasília"),
		Currencies:  []domain.CurrencyPayload{{CurrencyCode: "USD"}, {CurrencyCode: "EUR"}},
	})
	require.NoError(t, repo.Replace(ctx, found))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Currencies, 2)
	assert.Equal(t, "USD", got.Currencies[0].CurrencyCode)
	assert.Equal(t, "EUR", got.Currencies[1].CurrencyCode)
	assert.Equal(t, "Brasília", *got.CapitalCity)
	assert.Equal(t, 76, *got.NumericCode)

	missing, err := repo.GetByNumericCode(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountryRepositoryDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, MDMModels()...)
	repo := NewCountryRepository(db)

	c := domain.NewCountry(domain.CountryPayload{
		CountryName: "Testland",
		Currencies:  []domain.CurrencyPayload{{CurrencyCode: "TST"}},
	})
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	var n int64
	require.NoError(t, db.Model(&domain.Currency{}).Count(&n).Error)
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, c.ID), domain.ErrNotFound)
}
