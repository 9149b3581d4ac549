package repositories

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// AllocationReader defines read operations for allocations.
type AllocationReader interface {
	FindAllocationByID(ctx context.Context, allocationID string) (*domain.Allocation, error)
	ListAllocations(ctx context.Context, addressID string, limit int, nextToken *string) ([]domain.Allocation, *string, error)
}

// AllocationWriter defines write operations for allocations.
type AllocationWriter interface {
	// SaveAllocation persists the header plus details and decrements each
	// referenced transaction's unallocated balance, all in one database
	// transaction. Referenced rows are locked and the sign/magnitude bounds
	// re-verified under lock; a concurrent allocation that already consumed a
	// balance makes this one fail with ErrConflict.
	SaveAllocation(ctx context.Context, allocation domain.Allocation) error

	// DeleteAllocation removes the header and details, restoring every
	// consumed unallocated balance exactly, in one database transaction.
	DeleteAllocation(ctx context.Context, allocationID string) error
}

// AllocationRepositoryFacade combines allocation reads and writes.
type AllocationRepositoryFacade interface {
	AllocationReader
	AllocationWriter
}
