package services

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

// AllocationSvcFacade settles outstanding balances across transactions.
type AllocationSvcFacade interface {
	// CreateAllocation validates and persists a zero-sum settlement set,
	// decrementing each referenced transaction's unallocated balance.
	CreateAllocation(ctx context.Context, addressID string, req dto.CreateAllocationRequest, userID string) (*domain.Allocation, error)

	GetAllocation(ctx context.Context, addressID, allocationID string) (*domain.Allocation, error)
	ListAllocations(ctx context.Context, addressID string, limit int, nextToken *string) (*dto.ListAllocationsResponse, error)

	// DeleteAllocation removes a settlement, restoring the consumed balances
	// exactly.
	DeleteAllocation(ctx context.Context, addressID, allocationID, userID string) error
}
