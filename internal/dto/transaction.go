package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/utils/accounting"
)

// RawLineRequest is one unpriced line of a transaction creation request.
type RawLineRequest struct {
	Description   string           `json:"description" binding:"required"`
	UnitPrice     decimal.Decimal  `json:"unitPrice" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
	TaxRateID     string           `json:"taxRateID" binding:"required"`
	TaxAmount     *decimal.Decimal `json:"taxAmount,omitempty"`
	AccountNumber int64            `json:"accountNumber" binding:"required"`
	PartNumber    string           `json:"partNumber,omitempty"`
}

// CreateTransactionRequest creates one transaction of the type named in the
// URL. The counterparty is optional for cash movements without a trading
// partner.
type CreateTransactionRequest struct {
	Date             time.Time        `json:"date" binding:"required"`
	Narrative        string           `json:"narrative" binding:"required"`
	OtherAddressID   *string          `json:"otherAddressID,omitempty"`
	ReportTemplateID *string          `json:"reportTemplateID,omitempty"`
	Lines            []RawLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToRawLines maps request lines to calculator input.
func (r CreateTransactionRequest) ToRawLines() []accounting.RawLine {
	raw := make([]accounting.RawLine, len(r.Lines))
	for i, l := range r.Lines {
		rl := accounting.RawLine{
			Description:   l.Description,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			TaxRateID:     l.TaxRateID,
			TaxAmount:     l.TaxAmount,
			AccountNumber: l.AccountNumber,
			PartNumber:    l.PartNumber,
		}
		if l.ExchangeRate != nil {
			rl.ExchangeRate = *l.ExchangeRate
		}
		raw[i] = rl
	}
	return raw
}

// UpdateTransactionRequest changes non-financial metadata only.
type UpdateTransactionRequest struct {
	Narrative        *string `json:"narrative,omitempty"`
	ReportTemplateID *string `json:"reportTemplateID,omitempty"`
}

// LineEntryResponse is the API shape of one line entry.
type LineEntryResponse struct {
	LineEntryID   string          `json:"lineEntryID"`
	AccountNumber int64           `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      decimal.Decimal `json:"quantity"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	TaxPercent    decimal.Decimal `json:"taxPercent"`
	Description   string          `json:"description"`
	PartNumber    string          `json:"partNumber,omitempty"`
}

// TransactionResponse is the API shape of a transaction.
type TransactionResponse struct {
	TransactionID       string              `json:"transactionID"`
	AddressID           string              `json:"addressID"`
	OtherAddressID      *string             `json:"otherAddressID,omitempty"`
	TxnType             string              `json:"txnType"`
	TSN                 int64               `json:"tsn"`
	Date                time.Time           `json:"date"`
	Narrative           string              `json:"narrative"`
	Unallocated         decimal.Decimal     `json:"unallocated"`
	ContraTransactionID *string             `json:"contraTransactionID,omitempty"`
	CheckpointID        *string             `json:"checkpointID,omitempty"`
	Debits              []LineEntryResponse `json:"debits,omitempty"`
	Credits             []LineEntryResponse `json:"credits,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	CreatedBy           string              `json:"createdBy"`
}

// ListTransactionsParams carries listing filters and pagination.
type ListTransactionsParams struct {
	OtherAddressID *string    `form:"otherAddressID"`
	TxnType        *string    `form:"txnType"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Limit          int        `form:"limit"`
	NextToken      *string    `form:"nextToken"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

func toLineEntryResponses(entries []domain.LineEntry) []LineEntryResponse {
	if len(entries) == 0 {
		return nil
	}
	out := make([]LineEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LineEntryResponse{
			LineEntryID:   e.LineEntryID,
			AccountNumber: e.AccountNumber,
			Amount:        e.Amount,
			UnitPrice:     e.UnitPrice,
			Quantity:      e.Quantity,
			ExchangeRate:  e.ExchangeRate,
			TaxPercent:    e.TaxPercent,
			Description:   e.Description,
			PartNumber:    e.PartNumber,
		}
	}
	return out
}

// ToTransactionResponse converts a domain.Transaction to its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       t.TransactionID,
		AddressID:           t.AddressID,
		OtherAddressID:      t.OtherAddressID,
		TxnType:             string(t.TxnType),
		TSN:                 t.TSN,
		Date:                t.TransactionDate,
		Narrative:           t.Narrative,
		Unallocated:         t.Unallocated,
		ContraTransactionID: t.ContraTransactionID,
		CheckpointID:        t.CheckpointID,
		Debits:              toLineEntryResponses(t.Debits),
		Credits:             toLineEntryResponses(t.Credits),
		CreatedAt:           t.CreatedAt,
		CreatedBy:           t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
