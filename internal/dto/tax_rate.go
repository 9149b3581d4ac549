package dto

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// CreateTaxRateRequest adds a tax rate to the caller's address.
type CreateTaxRateRequest struct {
	Description string          `json:"description" binding:"required"`
	Percent     decimal.Decimal `json:"percent" binding:"required"`
}

// UpdateTaxRateRequest edits a rate. Percents already snapshotted into line
// entries are unaffected.
type UpdateTaxRateRequest struct {
	Description *string          `json:"description,omitempty"`
	Percent     *decimal.Decimal `json:"percent,omitempty"`
}

// TaxRateResponse is the API shape of a tax rate.
type TaxRateResponse struct {
	TaxRateID   string          `json:"taxRateID"`
	AddressID   string          `json:"addressID"`
	Description string          `json:"description"`
	Percent     decimal.Decimal `json:"percent"`
	IsActive    bool            `json:"isActive"`
}

// ToTaxRateResponse converts a domain.TaxRate to its API shape.
func ToTaxRateResponse(r *domain.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		TaxRateID:   r.TaxRateID,
		AddressID:   r.AddressID,
		Description: r.Description,
		Percent:     r.Percent,
		IsActive:    r.IsActive,
	}
}

// ToTaxRateResponses converts a slice of tax rates.
func ToTaxRateResponses(rates []domain.TaxRate) []TaxRateResponse {
	out := make([]TaxRateResponse, len(rates))
	for i := range rates {
		out[i] = ToTaxRateResponse(&rates[i])
	}
	return out
}
