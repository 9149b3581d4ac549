package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

var (
	ErrFutureCheckpoint     = errors.New("checkpoint date cannot be in the future")
	ErrCheckpointNotOrdered = errors.New("an existing checkpoint has the same or a later date")
	ErrNotLatestCheckpoint  = errors.New("only the most recent checkpoint can be deleted")
	ErrYearEndOnDate        = errors.New("a year-end checkpoint shares this date")
)

// checkpointService closes and reopens accounting periods per address.
type checkpointService struct {
	checkpointRepo portsrepo.CheckpointRepositoryFacade
	directory      portsclients.DirectoryClient
}

// NewCheckpointService creates the checkpoint service.
func NewCheckpointService(checkpointRepo portsrepo.CheckpointRepositoryFacade, directory portsclients.DirectoryClient) portssvc.CheckpointSvcFacade {
	return &checkpointService{checkpointRepo: checkpointRepo, directory: directory}
}

var _ portssvc.CheckpointSvcFacade = (*checkpointService)(nil)

// CreateCheckpoint implements portssvc.CheckpointSvcFacade.
//
// The service validates the date and ordering; the repository runs the
// ledger-wide debit/credit scan and the insert under one address-level lock
// so concurrent transaction creation cannot slip a date under the boundary.
// A debit/credit mismatch, or a suspense residue at year end, comes back as
// ErrIntegrity and is surfaced loudly: it means the ledger is corrupt, not
// that the caller sent bad input.
func (s *checkpointService) CreateCheckpoint(ctx context.Context, addressID string, req dto.CreateCheckpointRequest, userID string) (*domain.Checkpoint, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.directory.ResolveAddress(ctx, addressID); err != nil {
		return nil, err
	}

	if req.Date.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrFutureCheckpoint)
	}

	latest, err := s.checkpointRepo.FindLatestCheckpoint(ctx, addressID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read latest checkpoint: %w", err)
	}
	if latest != nil && !latest.Date.Before(req.Date) {
		return nil, fmt.Errorf("%w: %w (existing %s, requested %s)",
			apperrors.ErrBusinessRule, ErrCheckpointNotOrdered,
			latest.Date.Format("2006-01-02"), req.Date.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	checkpoint := domain.Checkpoint{
		CheckpointID: uuid.NewString(),
		AddressID:    addressID,
		Date:         req.Date,
		IsYearEnd:    req.IsYearEnd,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.checkpointRepo.CreateCheckpoint(ctx, &checkpoint); err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("LEDGER INTEGRITY FAILURE during period close",
				slog.String("address_id", addressID),
				slog.String("date", req.Date.Format("2006-01-02")),
				slog.String("error", err.Error()))
			return nil, err
		}
		logger.Error("Failed to create checkpoint", slog.String("error", err.Error()), slog.String("address_id", addressID))
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}

	logger.Info("Checkpoint created",
		slog.String("checkpoint_id", checkpoint.CheckpointID),
		slog.String("date", checkpoint.Date.Format("2006-01-02")),
		slog.Bool("year_end", checkpoint.IsYearEnd),
		slog.String("closing_balance", checkpoint.ClosingBalance.String()))
	return &checkpoint, nil
}

// ListCheckpoints implements portssvc.CheckpointSvcFacade.
func (s *checkpointService) ListCheckpoints(ctx context.Context, addressID string) ([]domain.Checkpoint, error) {
	cps, err := s.checkpointRepo.ListCheckpoints(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	return cps, nil
}

// DeleteCheckpoint implements portssvc.CheckpointSvcFacade.
func (s *checkpointService) DeleteCheckpoint(ctx context.Context, addressID, checkpointID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	cp, err := s.checkpointRepo.FindCheckpointByID(ctx, checkpointID)
	if err != nil {
		return fmt.Errorf("failed to find checkpoint %s: %w", checkpointID, err)
	}
	if cp.AddressID != addressID {
		return apperrors.ErrNotFound
	}

	latest, err := s.checkpointRepo.FindLatestCheckpoint(ctx, addressID)
	if err != nil {
		return fmt.Errorf("failed to read latest checkpoint: %w", err)
	}
	if latest.CheckpointID != cp.CheckpointID {
		return fmt.Errorf("%w: %w", apperrors.ErrBusinessRule, ErrNotLatestCheckpoint)
	}

	// The repository re-verifies both conditions inside its transaction,
	// including a year-end checkpoint sharing the date.
	if err := s.checkpointRepo.DeleteCheckpoint(ctx, checkpointID); err != nil {
		logger.Error("Failed to delete checkpoint", slog.String("error", err.Error()), slog.String("checkpoint_id", checkpointID))
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	logger.Info("Checkpoint deleted", slog.String("checkpoint_id", checkpointID), slog.String("deleted_by", userID))
	return nil
}
