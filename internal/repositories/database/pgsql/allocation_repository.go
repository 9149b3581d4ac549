package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	"github.com/openbooks/bookkeeping_backend/internal/utils/pagination"
)

// PgxAllocationRepository persists allocations using pgx.
type PgxAllocationRepository struct {
	BaseRepository
}

// newPgxAllocationRepository creates a new allocation repository.
func newPgxAllocationRepository(pool *pgxpool.Pool) *PgxAllocationRepository {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AllocationRepositoryFacade = (*PgxAllocationRepository)(nil)

// SaveAllocation persists the header plus details and decrements each
// referenced unallocated balance in one database transaction. Every
// referenced row is locked and the sign/magnitude bounds re-verified under
// the lock, since the service validated against a possibly stale snapshot.
func (r *PgxAllocationRepository) SaveAllocation(ctx context.Context, allocation domain.Allocation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock rows in a deterministic order so two concurrent allocations over
	// an overlapping transaction set cannot deadlock.
	details := make([]domain.AllocationDetail, len(allocation.Details))
	copy(details, allocation.Details)
	sort.Slice(details, func(i, j int) bool { return details[i].TransactionID < details[j].TransactionID })

	for _, d := range details {
		var unallocated decimal.Decimal
		err := tx.QueryRow(ctx, `
			SELECT unallocated FROM transactions
			WHERE transaction_id = $1 AND NOT is_deleted
			FOR UPDATE;
		`, d.TransactionID).Scan(&unallocated)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to lock transaction "+d.TransactionID, err)
		}

		if unallocated.IsZero() || d.Amount.Sign() == unallocated.Sign() || d.Amount.Abs().GreaterThan(unallocated.Abs()) {
			return fmt.Errorf("%w: outstanding balance of transaction %s changed to %s",
				apperrors.ErrConflict, d.TransactionID, unallocated.String())
		}

		_, err = tx.Exec(ctx, `
			UPDATE transactions
			SET unallocated = unallocated + $1, last_updated_at = $2, last_updated_by = $3
			WHERE transaction_id = $4;
		`, d.Amount, allocation.LastUpdatedAt, allocation.LastUpdatedBy, d.TransactionID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to apply allocation amount to transaction "+d.TransactionID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO allocations (allocation_id, address_id, other_address_id, narrative, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, allocation.AllocationID, allocation.AddressID, allocation.OtherAddressID, allocation.Narrative,
		allocation.CreatedAt, allocation.CreatedBy, allocation.LastUpdatedAt, allocation.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert allocation "+allocation.AllocationID, err)
	}

	batch := &pgx.Batch{}
	for _, d := range allocation.Details {
		batch.Queue(`
			INSERT INTO allocation_details (allocation_detail_id, allocation_id, transaction_id, amount, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, d.AllocationDetailID, d.AllocationID, d.TransactionID, d.Amount,
			d.CreatedAt, d.CreatedBy, d.LastUpdatedAt, d.LastUpdatedBy)
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return apperrors.NewAppError(500, "failed to insert allocation detail for "+allocation.AllocationID, err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close allocation detail batch for "+allocation.AllocationID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteAllocation removes the header and details and restores every
// consumed unallocated balance exactly, in one database transaction.
func (r *PgxAllocationRepository) DeleteAllocation(ctx context.Context, allocationID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `
		SELECT allocation_detail_id, transaction_id, amount
		FROM allocation_details
		WHERE allocation_id = $1
		ORDER BY transaction_id;
	`, allocationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query details for allocation "+allocationID, err)
	}

	type restore struct {
		transactionID string
		amount        decimal.Decimal
	}
	restores := []restore{}
	for rows.Next() {
		var d restore
		var detailID string
		if err := rows.Scan(&detailID, &d.transactionID, &d.amount); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan detail row for allocation "+allocationID, err)
		}
		restores = append(restores, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return apperrors.NewAppError(500, "error iterating detail rows for allocation "+allocationID, err)
	}
	rows.Close()

	if len(restores) == 0 {
		return apperrors.ErrNotFound
	}

	for _, d := range restores {
		tag, err := tx.Exec(ctx, `
			UPDATE transactions SET unallocated = unallocated - $1
			WHERE transaction_id = $2;
		`, d.amount, d.transactionID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to restore unallocated balance of transaction "+d.transactionID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewAppError(500, "allocation "+allocationID+" references missing transaction "+d.transactionID, nil)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM allocation_details WHERE allocation_id = $1;`, allocationID); err != nil {
		return apperrors.NewAppError(500, "failed to delete details for allocation "+allocationID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM allocations WHERE allocation_id = $1;`, allocationID); err != nil {
		return apperrors.NewAppError(500, "failed to delete allocation "+allocationID, err)
	}

	return r.Commit(ctx, tx)
}

// FindAllocationByID retrieves an allocation with its details populated.
func (r *PgxAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.Allocation, error) {
	var alloc domain.Allocation
	err := r.Pool.QueryRow(ctx, `
		SELECT allocation_id, address_id, other_address_id, narrative, created_at, created_by, last_updated_at, last_updated_by
		FROM allocations WHERE allocation_id = $1;
	`, allocationID).Scan(
		&alloc.AllocationID, &alloc.AddressID, &alloc.OtherAddressID, &alloc.Narrative,
		&alloc.CreatedAt, &alloc.CreatedBy, &alloc.LastUpdatedAt, &alloc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find allocation by ID "+allocationID, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT allocation_detail_id, allocation_id, transaction_id, amount, created_at, created_by, last_updated_at, last_updated_by
		FROM allocation_details WHERE allocation_id = $1
		ORDER BY created_at, allocation_detail_id;
	`, allocationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query details for allocation "+allocationID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.AllocationDetail
		err := rows.Scan(
			&d.AllocationDetailID, &d.AllocationID, &d.TransactionID, &d.Amount,
			&d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan detail row for allocation "+allocationID, err)
		}
		alloc.Details = append(alloc.Details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating detail rows for allocation "+allocationID, err)
	}

	return &alloc, nil
}

// ListAllocations retrieves a page of allocation headers for an address,
// newest first, using token-based pagination. Details are not populated.
func (r *PgxAllocationRepository) ListAllocations(ctx context.Context, addressID string, limit int, nextToken *string) ([]domain.Allocation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `
		SELECT allocation_id, address_id, other_address_id, narrative, created_at, created_by, last_updated_at, last_updated_by
		FROM allocations WHERE address_id = $1
	`
	args := []interface{}{addressID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list allocations for address "+addressID, err)
	}
	defer rows.Close()

	allocations := []domain.Allocation{}
	for rows.Next() {
		var a domain.Allocation
		err := rows.Scan(
			&a.AllocationID, &a.AddressID, &a.OtherAddressID, &a.Narrative,
			&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan allocation row for address "+addressID, err)
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating allocation rows for address "+addressID, err)
	}

	var token *string
	if len(allocations) == fetchLimit {
		allocations = allocations[:limit]
		t := pagination.EncodeDateBasedToken(allocations[limit-1].CreatedAt)
		token = &t
	}
	return allocations, token, nil
}
