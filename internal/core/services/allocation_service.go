package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

var (
	ErrAllocationNotZero    = errors.New("allocation amounts do not sum to zero")
	ErrMixedCounterparties  = errors.New("allocation references transactions of different counterparties")
	ErrMixedDirections      = errors.New("allocation mixes sale and purchase transactions")
	ErrAmountSign           = errors.New("allocation amount must oppose the outstanding balance")
	ErrAmountExceedsBalance = errors.New("allocation amount exceeds the outstanding balance")
)

// allocationService settles outstanding balances between a tenant and one
// counterparty across multiple transactions.
//
// Allocations carry no checkpoint precondition: they are settlement state,
// not financial content. An allocation never changes a transaction's entries,
// totals or date, so the period-close immutability boundary does not apply
// and documents closed by a checkpoint can still be settled afterwards.
type allocationService struct {
	allocRepo portsrepo.AllocationRepositoryFacade
	txnRepo   portsrepo.TransactionReader
}

// NewAllocationService creates the allocation service.
func NewAllocationService(allocRepo portsrepo.AllocationRepositoryFacade, txnRepo portsrepo.TransactionReader) portssvc.AllocationSvcFacade {
	return &allocationService{allocRepo: allocRepo, txnRepo: txnRepo}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// CreateAllocation implements portssvc.AllocationSvcFacade.
//
// Validation happens against a read snapshot of the unallocated balances;
// the repository re-locks each referenced row and re-verifies sign and
// magnitude before applying the decrements, so a concurrent allocation that
// consumed a balance first surfaces as ErrConflict rather than overdrawing.
func (s *allocationService) CreateAllocation(ctx context.Context, addressID string, req dto.CreateAllocationRequest, userID string) (*domain.Allocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Entries) < 2 {
		return nil, fmt.Errorf("%w: allocation requires at least two entries", apperrors.ErrValidation)
	}

	var (
		otherAddressID string
		salesDirection bool
		total          = decimal.Zero
		seen           = make(map[string]struct{}, len(req.Entries))
	)

	details := make([]domain.AllocationDetail, 0, len(req.Entries))
	now := time.Now().UTC()
	allocationID := uuid.NewString()

	for i, entry := range req.Entries {
		if _, dup := seen[entry.TransactionID]; dup {
			return nil, fmt.Errorf("%w: transaction %s referenced twice", apperrors.ErrValidation, entry.TransactionID)
		}
		seen[entry.TransactionID] = struct{}{}

		txn, err := s.txnRepo.FindTransactionByID(ctx, entry.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if txn.AddressID != addressID {
			return nil, apperrors.ErrNotFound
		}
		if txn.IsDeleted {
			return nil, fmt.Errorf("%w: entry %d: transaction is deleted", apperrors.ErrValidation, i)
		}
		if txn.OtherAddressID == nil {
			return nil, fmt.Errorf("%w: entry %d: transaction has no counterparty", apperrors.ErrValidation, i)
		}
		if !txn.TxnType.IsSale() && !txn.TxnType.IsPurchase() {
			return nil, fmt.Errorf("%w: entry %d: type %s cannot be allocated", apperrors.ErrValidation, i, txn.TxnType)
		}

		// The first entry fixes the counterparty and the ledger direction.
		if i == 0 {
			otherAddressID = *txn.OtherAddressID
			salesDirection = txn.TxnType.IsSale()
		} else {
			if *txn.OtherAddressID != otherAddressID {
				return nil, fmt.Errorf("%w: entry %d: %w", apperrors.ErrBusinessRule, i, ErrMixedCounterparties)
			}
			if txn.TxnType.IsSale() != salesDirection {
				return nil, fmt.Errorf("%w: entry %d: %w", apperrors.ErrBusinessRule, i, ErrMixedDirections)
			}
		}

		u := txn.Unallocated
		amt := entry.Amount
		if amt.IsZero() || u.IsZero() || amt.Sign() == u.Sign() {
			return nil, fmt.Errorf("%w: entry %d: %w (amount %s, outstanding %s)",
				apperrors.ErrBusinessRule, i, ErrAmountSign, amt.String(), u.String())
		}
		if amt.Abs().GreaterThan(u.Abs()) {
			return nil, fmt.Errorf("%w: entry %d: %w (amount %s, outstanding %s)",
				apperrors.ErrBusinessRule, i, ErrAmountExceedsBalance, amt.String(), u.String())
		}

		total = total.Add(amt)
		details = append(details, domain.AllocationDetail{
			AllocationDetailID: uuid.NewString(),
			AllocationID:       allocationID,
			TransactionID:      entry.TransactionID,
			Amount:             amt,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	if !total.IsZero() {
		return nil, fmt.Errorf("%w: %w: sum is %s", apperrors.ErrBusinessRule, ErrAllocationNotZero, total.String())
	}

	allocation := domain.Allocation{
		AllocationID:   allocationID,
		AddressID:      addressID,
		OtherAddressID: otherAddressID,
		Narrative:      req.Narrative,
		Details:        details,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.allocRepo.SaveAllocation(ctx, allocation); err != nil {
		logger.Error("Failed to save allocation", slog.String("error", err.Error()), slog.String("address_id", addressID))
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}

	logger.Info("Allocation created",
		slog.String("allocation_id", allocationID),
		slog.Int("entries", len(details)))
	return &allocation, nil
}

// GetAllocation implements portssvc.AllocationSvcFacade.
func (s *allocationService) GetAllocation(ctx context.Context, addressID, allocationID string) (*domain.Allocation, error) {
	alloc, err := s.allocRepo.FindAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	if alloc.AddressID != addressID {
		return nil, apperrors.ErrNotFound
	}
	return alloc, nil
}

// ListAllocations implements portssvc.AllocationSvcFacade.
func (s *allocationService) ListAllocations(ctx context.Context, addressID string, limit int, nextToken *string) (*dto.ListAllocationsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	allocs, next, err := s.allocRepo.ListAllocations(ctx, addressID, limit, nextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	resp := &dto.ListAllocationsResponse{NextToken: next}
	for i := range allocs {
		resp.Allocations = append(resp.Allocations, dto.ToAllocationResponse(&allocs[i]))
	}
	return resp, nil
}

// DeleteAllocation implements portssvc.AllocationSvcFacade. The repository
// restores every consumed unallocated balance in the same database
// transaction that removes the rows.
func (s *allocationService) DeleteAllocation(ctx context.Context, addressID, allocationID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetAllocation(ctx, addressID, allocationID); err != nil {
		return err
	}
	if err := s.allocRepo.DeleteAllocation(ctx, allocationID); err != nil {
		logger.Error("Failed to delete allocation", slog.String("error", err.Error()), slog.String("allocation_id", allocationID))
		return fmt.Errorf("failed to delete allocation: %w", err)
	}
	logger.Info("Allocation deleted", slog.String("allocation_id", allocationID), slog.String("deleted_by", userID))
	return nil
}
