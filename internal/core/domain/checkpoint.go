package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkpoint is an immutability boundary for one address: once it exists, no
// transaction dated on or before it may be created or mutated. Checkpoints
// are totally ordered by date per address and append-only.
type Checkpoint struct {
	CheckpointID   string          `json:"checkpointID"` // Primary Key (UUID)
	AddressID      string          `json:"addressID"`
	Date           time.Time       `json:"date"`
	ClosingBalance decimal.Decimal `json:"closingBalance"` // In-scope debit total of the closed window
	IsYearEnd      bool            `json:"isYearEnd"`
	AuditFields
}

// Locks reports whether the checkpoint forbids writes dated on or before d.
func (c *Checkpoint) Locks(d time.Time) bool {
	return !d.After(c.Date)
}
