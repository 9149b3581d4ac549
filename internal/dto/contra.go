package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/utils/accounting"
)

// ContraLineRequest is one line of a contra submission. Description, unit
// price and quantity identify the source line; the rest are the
// counterparty's own overrides.
type ContraLineRequest struct {
	Description   string           `json:"description" binding:"required"`
	UnitPrice     decimal.Decimal  `json:"unitPrice" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	AccountNumber int64            `json:"accountNumber" binding:"required"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
	TaxRateID     string           `json:"taxRateID" binding:"required"`
}

// CreateContraRequest mirrors an already-posted counterparty transaction
// into the caller's own ledger.
type CreateContraRequest struct {
	SourceTransactionID string              `json:"sourceTransactionID" binding:"required"`
	Date                time.Time           `json:"date" binding:"required"`
	Narrative           string              `json:"narrative" binding:"required"`
	ReportTemplateID    *string             `json:"reportTemplateID,omitempty"`
	Lines               []ContraLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToContraLines maps request lines to matcher input.
func (r CreateContraRequest) ToContraLines() []accounting.ContraLine {
	lines := make([]accounting.ContraLine, len(r.Lines))
	for i, l := range r.Lines {
		cl := accounting.ContraLine{
			Description:   l.Description,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			AccountNumber: l.AccountNumber,
			TaxRateID:     l.TaxRateID,
		}
		if l.ExchangeRate != nil {
			cl.ExchangeRate = *l.ExchangeRate
		}
		lines[i] = cl
	}
	return lines
}
