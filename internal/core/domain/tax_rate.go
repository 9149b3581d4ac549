package domain

import "github.com/shopspring/decimal"

// TaxRate is a per-address tax percentage. Line entries snapshot the percent
// at creation time, so editing a rate never rewrites history.
type TaxRate struct {
	TaxRateID   string          `json:"taxRateID"` // Primary Key (UUID)
	AddressID   string          `json:"addressID"` // FK -> addresses
	Description string          `json:"description"`
	Percent     decimal.Decimal `json:"percent"` // e.g. 23 for 23%
	IsActive    bool            `json:"isActive"`
	AuditFields
}
