package domain

import "time"

// Provider is an external data source definition owned by MDM.
type Provider struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Category    string    `gorm:"type:varchar(100)"`
	APIURL      string    `gorm:"column:api_url;type:varchar(500);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name for Provider.
func (Provider) TableName() string {
	return "providers"
}

// Payload converts the provider into its wire representation.
func (p *Provider) Payload() ProviderPayload {
	return ProviderPayload{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		APIURL:      p.APIURL,
		Description: p.Description,
		CreatedAt:   FormatLocalDateTime(p.CreatedAt),
		UpdatedAt:   FormatLocalDateTime(p.UpdatedAt),
	}
}

// Apply copies the mutable fields of a payload onto the provider.
func (p *Provider) Apply(in ProviderPayload) {
	p.Name = in.Name
	p.Category = in.Category
	p.APIURL = in.APIURL
	p.Description = in.Description
}
