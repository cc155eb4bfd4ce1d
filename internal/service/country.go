package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
	"github.com/es2/countrysync/internal/repository"
	"github.com/xuri/excelize/v2"
)

// CountryService manages canonical country records and the ingestion callback.
type CountryService struct {
	repo *repository.CountryRepository
}

// NewCountryService creates a new CountryService.
// Parameters:
//   - repo: country store.
// Returns:
//   - *CountryService: initialized service.
func NewCountryService(repo *repository.CountryRepository) *CountryService {
	return &CountryService{repo: repo}
}

func (s *CountryService) Create(ctx context.Context, in domain.CountryPayload) (domain.CountryPayload, error) {
	c := domain.NewCountry(in)
	if err := s.repo.Create(ctx, c); err != nil {
		return domain.CountryPayload{}, err
	}
	return c.Payload(), nil
}

func (s *CountryService) List(ctx context.Context) ([]domain.CountryPayload, error) {
	countries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CountryPayload, 0, len(countries))
	for i := range countries {
		out = append(out, countries[i].Payload())
	}
	return out, nil
}

func (s *CountryService) Get(ctx context.Context, id uint) (domain.CountryPayload, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.CountryPayload{}, err
	}
	return c.Payload(), nil
}

// Update overwrites every field of the country, numeric code included, and replaces its currencies.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: country to update.
//   - in: new field values.
// Returns:
//   - domain.CountryPayload: stored state after the update.
//   - error: wraps domain.ErrNotFound if the country does not exist.
func (s *CountryService) Update(ctx context.Context, id uint, in domain.CountryPayload) (domain.CountryPayload, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.CountryPayload{}, err
	}
	c.Apply(in)
	c.NumericCode = in.NumericCode
	if err := s.repo.Replace(ctx, c); err != nil {
		return domain.CountryPayload{}, err
	}
	return c.Payload(), nil
}

func (s *CountryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// ProcessAndSaveCountries upserts records received from an ingestion callback.
// A record whose numeric code matches a stored country updates it (currencies replaced);
// anything else is inserted. This is not an all-or-nothing batch: each record commits in
// its own transaction, so records before a failing one stay saved and the rest are not
// attempted. An empty list does nothing.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - records: transformed countries.
// Returns:
//   - error: the first failure, naming the record.
func (s *CountryService) ProcessAndSaveCountries(ctx context.Context, records []domain.CountryPayload) error {
	if len(records) == 0 {
		return nil
	}

	var inserted, updated int
	for _, rec := range records {
		var existing *domain.Country
		if rec.NumericCode != nil {
			found, err := s.repo.GetByNumericCode(ctx, *rec.NumericCode)
			if err != nil {
				return fmt.Errorf("lookup country %q: %w", rec.CountryName, err)
			}
			existing = found
		}

		if existing != nil {
			existing.Apply(rec)
			if err := s.repo.Replace(ctx, existing); err != nil {
				return fmt.Errorf("update country %q: %w", rec.CountryName, err)
			}
			updated++
			continue
		}

		if err := s.repo.Create(ctx, domain.NewCountry(rec)); err != nil {
			return fmt.Errorf("insert country %q: %w", rec.CountryName, err)
		}
		inserted++
	}

	logger.With(logger.Fields{
		"inserted": inserted,
		"updated":  updated,
	}).WithCount(len(records)).Info(ctx, "Processed country callback")
	return nil
}

var (
	countryHeader  = []interface{}{"ID", "Country", "Numeric Code", "Capital", "Population", "Area", "Currencies"}
	currencyHeader = []interface{}{"Country ID", "Country", "Code", "Name", "Symbol"}
)

// ExportXLSX writes every country to an xlsx workbook with a Countries and a Currencies sheet.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - w: destination of the workbook bytes.
// Returns:
//   - int: number of countries exported.
//   - error: non-nil if loading or writing fails.
func (s *CountryService) ExportXLSX(ctx context.Context, w io.Writer) (int, error) {
	countries, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const countriesSheet, currenciesSheet = "Countries", "Currencies"
	if err := f.SetSheetName("Sheet1", countriesSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(currenciesSheet); err != nil {
		return 0, fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := f.SetSheetRow(countriesSheet, "A1", &countryHeader); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(currenciesSheet, "A1", &currencyHeader); err != nil {
		return 0, err
	}

	currencyRow := 2
	for i, c := range countries {
		codes := make([]string, 0, len(c.Currencies))
		for _, cur := range c.Currencies {
			codes = append(codes, cur.CurrencyCode)
			cell, err := excelize.CoordinatesToCellName(1, currencyRow)
			if err != nil {
				return 0, err
			}
			row := []interface{}{c.ID, c.CountryName, cur.CurrencyCode, deref(cur.CurrencyName), deref(cur.CurrencySymbol)}
			if err := f.SetSheetRow(currenciesSheet, cell, &row); err != nil {
				return 0, err
			}
			currencyRow++
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{c.ID, c.CountryName, deref(c.NumericCode), deref(c.CapitalCity), deref(c.Population), deref(c.Area), strings.Join(codes, ", ")}
		if err := f.SetSheetRow(countriesSheet, cell, &row); err != nil {
			return 0, err
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(countries), nil
}

// deref returns the pointed-to value, or nil so the cell stays empty.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
