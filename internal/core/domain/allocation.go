package domain

import "github.com/shopspring/decimal"

// Allocation settles outstanding balances across two or more transactions of
// the same counterparty and ledger direction. Its details are signed amounts
// summing to exactly zero; each detail reduces the unallocated balance of
// its transaction.
type Allocation struct {
	AllocationID   string  `json:"allocationID"` // Primary Key (UUID)
	AddressID      string  `json:"addressID"`
	OtherAddressID string  `json:"otherAddressID"`
	Narrative      string  `json:"narrative"`
	Details        []AllocationDetail `json:"details,omitempty"`
	AuditFields
}

// AllocationDetail applies one signed amount against one transaction.
type AllocationDetail struct {
	AllocationDetailID string          `json:"allocationDetailID"` // Primary Key (UUID)
	AllocationID       string          `json:"allocationID"`
	TransactionID      string          `json:"transactionID"`
	Amount             decimal.Decimal `json:"amount"` // Signed, opposite to the balance it reduces
	AuditFields
}

// Total sums the detail amounts. A valid allocation totals zero: settlement
// redistributes value, it never creates or destroys it.
func (a *Allocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range a.Details {
		total = total.Add(d.Amount)
	}
	return total
}
