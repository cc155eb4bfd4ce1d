package domain

import "time"

// LocalDateTimeLayout renders timestamps as ISO-8601 local date-time without zone,
// trimming trailing zero fractions.
const LocalDateTimeLayout = "2006-01-02T15:04:05.999999999"

// FormatLocalDateTime formats t with LocalDateTimeLayout; the zero time renders as "".
func FormatLocalDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LocalDateTimeLayout)
}

// JobSummary is the JSON view of an IngestionJob shared by DEM and the MDM admin gateway.
type JobSummary struct {
	ID                  uint   `json:"id"`
	MDMProviderID       uint   `json:"mdmProviderId"`
	Status              string `json:"status"`
	RawDataPath         string `json:"rawDataPath,omitempty"`
	TransformedDataPath string `json:"transformedDataPath,omitempty"`
	StatusMessage       string `json:"statusMessage"`
	CreatedAt           string `json:"createdAt,omitempty"`
	UpdatedAt           string `json:"updatedAt,omitempty"`
}

// IngestionRequest is the body MDM posts to DEM to start an ingestion.
type IngestionRequest struct {
	MDMProviderID uint   `json:"mdmProviderId" binding:"required"`
	MDMSyncURL    string `json:"mdmSyncUrl" binding:"required,url"`
}

// ProviderPayload is the JSON view of a Provider.
type ProviderPayload struct {
	ID          uint   `json:"id"`
	Name        string `json:"name" binding:"required,max=255"`
	Category    string `json:"category" binding:"max=100"`
	APIURL      string `json:"apiUrl" binding:"required,url,max=500"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// CountryPayload is the JSON view of a Country. It is also the transformed record
// DEM produces and posts to the MDM callback. Optional fields stay nil when absent.
type CountryPayload struct {
	ID          *uint             `json:"id,omitempty"`
	CountryName string            `json:"countryName"`
	NumericCode *int              `json:"numericCode,omitempty"`
	CapitalCity *string           `json:"capitalCity,omitempty"`
	Population  *int64            `json:"population,omitempty"`
	Area        *float64          `json:"area,omitempty"`
	Currencies  []CurrencyPayload `json:"currencies"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

// CurrencyPayload is the JSON view of a Currency.
type CurrencyPayload struct {
	CurrencyID     *uint   `json:"currencyId,omitempty"`
	CurrencyCode   string  `json:"currencyCode"`
	CurrencyName   *string `json:"currencyName,omitempty"`
	CurrencySymbol *string `json:"currencySymbol,omitempty"`
}
