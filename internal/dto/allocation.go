package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// AllocationEntryRequest applies one signed amount against one transaction's
// outstanding balance.
type AllocationEntryRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// CreateAllocationRequest settles outstanding balances across two or more
// transactions of one counterparty. The signed amounts must total zero.
type CreateAllocationRequest struct {
	Narrative string                   `json:"narrative,omitempty"`
	Entries   []AllocationEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// AllocationDetailResponse is the API shape of one allocation detail.
type AllocationDetailResponse struct {
	AllocationDetailID string          `json:"allocationDetailID"`
	TransactionID      string          `json:"transactionID"`
	Amount             decimal.Decimal `json:"amount"`
}

// AllocationResponse is the API shape of an allocation.
type AllocationResponse struct {
	AllocationID   string                     `json:"allocationID"`
	AddressID      string                     `json:"addressID"`
	OtherAddressID string                     `json:"otherAddressID"`
	Narrative      string                     `json:"narrative,omitempty"`
	Details        []AllocationDetailResponse `json:"details,omitempty"`
	CreatedAt      time.Time                  `json:"createdAt"`
	CreatedBy      string                     `json:"createdBy"`
}

// ListAllocationsResponse is one page of allocations.
type ListAllocationsResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ToAllocationResponse converts a domain.Allocation to its API shape.
func ToAllocationResponse(a *domain.Allocation) AllocationResponse {
	resp := AllocationResponse{
		AllocationID:   a.AllocationID,
		AddressID:      a.AddressID,
		OtherAddressID: a.OtherAddressID,
		Narrative:      a.Narrative,
		CreatedAt:      a.CreatedAt,
		CreatedBy:      a.CreatedBy,
	}
	for _, d := range a.Details {
		resp.Details = append(resp.Details, AllocationDetailResponse{
			AllocationDetailID: d.AllocationDetailID,
			TransactionID:      d.TransactionID,
			Amount:             d.Amount,
		})
	}
	return resp
}
