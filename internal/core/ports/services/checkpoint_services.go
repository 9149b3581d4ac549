package services

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

// CheckpointSvcFacade closes and reopens accounting periods.
type CheckpointSvcFacade interface {
	// CreateCheckpoint closes the address's ledger up to the given date after
	// verifying debit/credit equality over the closing window (and a cleared
	// Suspense account for year ends).
	CreateCheckpoint(ctx context.Context, addressID string, req dto.CreateCheckpointRequest, userID string) (*domain.Checkpoint, error)

	ListCheckpoints(ctx context.Context, addressID string) ([]domain.Checkpoint, error)

	// DeleteCheckpoint removes the address's most recent checkpoint, provided
	// no year-end checkpoint shares its date.
	DeleteCheckpoint(ctx context.Context, addressID, checkpointID, userID string) error
}
