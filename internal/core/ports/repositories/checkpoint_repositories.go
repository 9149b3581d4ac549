package repositories

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// CheckpointReader defines read operations for checkpoints.
type CheckpointReader interface {
	FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error)
	// FindLatestCheckpoint returns the most recent checkpoint for the address,
	// or nil when none exists.
	FindLatestCheckpoint(ctx context.Context, addressID string) (*domain.Checkpoint, error)
	ListCheckpoints(ctx context.Context, addressID string) ([]domain.Checkpoint, error)
}

// CheckpointWriter defines write operations for checkpoints.
type CheckpointWriter interface {
	// CreateCheckpoint runs the ledger-wide scan and the insert under one
	// address-level lock and one consistent snapshot: it sums in-scope debit
	// and credit entries dated after the previous checkpoint and on/before
	// checkpoint.Date, fails with ErrIntegrity if they differ (and, for year
	// ends, if the Suspense account is not cleared), otherwise persists the
	// checkpoint with the debit total as closing balance and stamps the closed
	// transactions with its id. On success checkpoint.ClosingBalance is
	// populated.
	CreateCheckpoint(ctx context.Context, checkpoint *domain.Checkpoint) error

	// DeleteCheckpoint removes a checkpoint and clears its stamp from the
	// transactions it closed. Only the address's most recent checkpoint may be
	// deleted, and not when a year-end checkpoint shares its date.
	DeleteCheckpoint(ctx context.Context, checkpointID string) error
}

// CheckpointRepositoryFacade combines checkpoint reads and writes.
type CheckpointRepositoryFacade interface {
	CheckpointReader
	CheckpointWriter
}
