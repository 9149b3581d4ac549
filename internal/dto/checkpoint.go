package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// CreateCheckpointRequest closes a period (or year) at the given date.
type CreateCheckpointRequest struct {
	Date      time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	IsYearEnd bool      `json:"isYearEnd"`
}

// CheckpointResponse is the API shape of a checkpoint.
type CheckpointResponse struct {
	CheckpointID   string          `json:"checkpointID"`
	AddressID      string          `json:"addressID"`
	Date           time.Time       `json:"date"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	IsYearEnd      bool            `json:"isYearEnd"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// ToCheckpointResponse converts a domain.Checkpoint to its API shape.
func ToCheckpointResponse(c *domain.Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		CheckpointID:   c.CheckpointID,
		AddressID:      c.AddressID,
		Date:           c.Date,
		ClosingBalance: c.ClosingBalance,
		IsYearEnd:      c.IsYearEnd,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
	}
}

// ToCheckpointResponses converts a slice of checkpoints.
func ToCheckpointResponses(cps []domain.Checkpoint) []CheckpointResponse {
	out := make([]CheckpointResponse, len(cps))
	for i := range cps {
		out[i] = ToCheckpointResponse(&cps[i])
	}
	return out
}
