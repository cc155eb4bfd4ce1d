package domain

import "time"

// Country is a canonical country record. Currencies are owned exclusively by the country:
// deleting the country deletes them, and updates replace the whole list.
type Country struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	CountryName string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	NumericCode *int       `gorm:"uniqueIndex"`
	CapitalCity *string    `gorm:"type:varchar(100)"`
	Population  *int64
	Area        *float64
	Currencies  []Currency `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name for Country.
func (Country) TableName() string {
	return "countries"
}

// Currency belongs to exactly one Country.
type Currency struct {
	ID             uint    `gorm:"primaryKey;autoIncrement"`
	CountryID      uint    `gorm:"not null;index"`
	CurrencyCode   string  `gorm:"type:varchar(3);not null"`
	CurrencyName   *string `gorm:"type:varchar(100)"`
	CurrencySymbol *string `gorm:"type:varchar(15)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the database table name for Currency.
func (Currency) TableName() string {
	return "currencies"
}

// NewCountry builds an unsaved Country (with currencies) from a payload.
func NewCountry(in CountryPayload) *Country {
	c := &Country{}
	c.Apply(in)
	c.NumericCode = in.NumericCode
	return c
}

// Apply overwrites the mutable fields and replaces the currency list.
// NumericCode is left alone: it is the match key for bulk upserts and is set explicitly by callers.
func (c *Country) Apply(in CountryPayload) {
	c.CountryName = in.CountryName
	c.CapitalCity = in.CapitalCity
	c.Population = in.Population
	c.Area = in.Area

	c.Currencies = make([]Currency, 0, len(in.Currencies))
	for _, cur := range in.Currencies {
		c.Currencies = append(c.Currencies, Currency{
			CountryID:      c.ID,
			CurrencyCode:   cur.CurrencyCode,
			CurrencyName:   cur.CurrencyName,
			CurrencySymbol: cur.CurrencySymbol,
		})
	}
}

// Payload converts the country into its wire representation.
func (c *Country) Payload() CountryPayload {
	id := c.ID
	out := CountryPayload{
		ID:          &id,
		CountryName: c.CountryName,
		NumericCode: c.NumericCode,
		CapitalCity: c.CapitalCity,
		Population:  c.Population,
		Area:        c.Area,
		Currencies:  make([]CurrencyPayload, 0, len(c.Currencies)),
		CreatedAt:   FormatLocalDateTime(c.CreatedAt),
		UpdatedAt:   FormatLocalDateTime(c.UpdatedAt),
	}
	for _, cur := range c.Currencies {
		curID := cur.ID
		out.Currencies = append(out.Currencies, CurrencyPayload{
			CurrencyID:     &curID,
			CurrencyCode:   cur.CurrencyCode,
			CurrencyName:   cur.CurrencyName,
			CurrencySymbol: cur.CurrencySymbol,
		})
	}
	return out
}
