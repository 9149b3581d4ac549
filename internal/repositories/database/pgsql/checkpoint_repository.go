package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
)

// PgxCheckpointRepository persists period-close checkpoints using pgx.
type PgxCheckpointRepository struct {
	BaseRepository
}

// newPgxCheckpointRepository creates a new checkpoint repository.
func newPgxCheckpointRepository(pool *pgxpool.Pool) *PgxCheckpointRepository {
	return &PgxCheckpointRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CheckpointRepositoryFacade = (*PgxCheckpointRepository)(nil)

const checkpointColumns = `checkpoint_id, address_id, checkpoint_date, closing_balance, is_year_end,
	created_at, created_by, last_updated_at, last_updated_by`

// CreateCheckpoint runs the ledger-wide equality scan and the insert under
// one address-level advisory lock. Transaction creation takes the same lock,
// so no write dated inside the window can commit between the scan and the
// checkpoint becoming visible.
func (r *PgxCheckpointRepository) CreateCheckpoint(ctx context.Context, checkpoint *domain.Checkpoint) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, checkpoint.AddressID); err != nil {
		return apperrors.NewAppError(500, "failed to acquire address lock for "+checkpoint.AddressID, err)
	}

	// Re-verify ordering under the lock; the service checked against a
	// snapshot that may be stale by now.
	var prev sql.NullTime
	err = tx.QueryRow(ctx, `SELECT MAX(checkpoint_date) FROM checkpoints WHERE address_id = $1;`, checkpoint.AddressID).Scan(&prev)
	if err != nil {
		return apperrors.NewAppError(500, "failed to read latest checkpoint for address "+checkpoint.AddressID, err)
	}
	if prev.Valid && !checkpoint.Date.After(prev.Time) {
		return fmt.Errorf("%w: a checkpoint dated %s already exists",
			apperrors.ErrBusinessRule, prev.Time.Format(time.DateOnly))
	}

	scope := domain.CheckpointScopeTypes()
	typeCodes := make([]string, len(scope))
	for i, t := range scope {
		typeCodes[i] = string(t)
	}

	debitTotal, err := r.sumWindow(ctx, tx, "debit_entries", checkpoint.AddressID, typeCodes, prev, checkpoint.Date)
	if err != nil {
		return err
	}
	creditTotal, err := r.sumWindow(ctx, tx, "credit_entries", checkpoint.AddressID, typeCodes, prev, checkpoint.Date)
	if err != nil {
		return err
	}
	if err := verifyWindowBalanced(debitTotal, creditTotal); err != nil {
		return err
	}

	if checkpoint.IsYearEnd {
		suspense, err := r.suspenseBalance(ctx, tx, checkpoint.AddressID, checkpoint.Date)
		if err != nil {
			return err
		}
		if err := verifySuspenseCleared(suspense); err != nil {
			return err
		}
	}

	checkpoint.ClosingBalance = debitTotal

	_, err = tx.Exec(ctx, `
		INSERT INTO checkpoints (`+checkpointColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, checkpoint.CheckpointID, checkpoint.AddressID, checkpoint.Date, checkpoint.ClosingBalance, checkpoint.IsYearEnd,
		checkpoint.CreatedAt, checkpoint.CreatedBy, checkpoint.LastUpdatedAt, checkpoint.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert checkpoint "+checkpoint.CheckpointID, err)
	}

	// Stamp every transaction the checkpoint closes, regardless of scope:
	// the immutability boundary covers all types, the scan covers fewer.
	stampQuery := `
		UPDATE transactions
		SET checkpoint_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE address_id = $4 AND checkpoint_id IS NULL AND transaction_date <= $5
	`
	args := []interface{}{checkpoint.CheckpointID, checkpoint.LastUpdatedAt, checkpoint.LastUpdatedBy, checkpoint.AddressID, checkpoint.Date}
	if prev.Valid {
		args = append(args, prev.Time)
		stampQuery += ` AND transaction_date > $6`
	}
	if _, err := tx.Exec(ctx, stampQuery+`;`, args...); err != nil {
		return apperrors.NewAppError(500, "failed to stamp transactions closed by checkpoint "+checkpoint.CheckpointID, err)
	}

	return r.Commit(ctx, tx)
}

// verifyWindowBalanced checks the ledger-wide equality of the closing window.
// A divergence means corrupted bookkeeping, not bad input, so it surfaces as
// ErrIntegrity rather than a business-rule rejection.
func verifyWindowBalanced(debitTotal, creditTotal decimal.Decimal) error {
	if !debitTotal.Equal(creditTotal) {
		return fmt.Errorf("%w: window debit total %s does not equal credit total %s",
			apperrors.ErrIntegrity, debitTotal.String(), creditTotal.String())
	}
	return nil
}

// verifySuspenseCleared checks that the suspense account nets to zero before
// a year end closes. A residue means transactions were left unclassified,
// which is an integrity failure like an unbalanced window.
func verifySuspenseCleared(balance decimal.Decimal) error {
	if !balance.IsZero() {
		return fmt.Errorf("%w: suspense account holds %s at year end",
			apperrors.ErrIntegrity, balance.String())
	}
	return nil
}

func (r *PgxCheckpointRepository) sumWindow(ctx context.Context, tx pgx.Tx, table, addressID string, typeCodes []string, after sql.NullTime, until time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM ` + table + ` e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE t.address_id = $1 AND t.txn_type = ANY($2) AND NOT t.is_deleted
		  AND t.transaction_date <= $3
	`
	args := []interface{}{addressID, typeCodes, until}
	if after.Valid {
		args = append(args, after.Time)
		query += ` AND t.transaction_date > $4`
	}

	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query+`;`, args...).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum "+table+" for address "+addressID, err)
	}
	return total, nil
}

// suspenseBalance nets the suspense account over the address's whole history
// up to the given date.
func (r *PgxCheckpointRepository) suspenseBalance(ctx context.Context, tx pgx.Tx, addressID string, until time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE((
			SELECT SUM(e.amount) FROM debit_entries e
			JOIN transactions t ON t.transaction_id = e.transaction_id
			WHERE t.address_id = $1 AND e.account_number = $2 AND NOT t.is_deleted AND t.transaction_date <= $3
		), 0) - COALESCE((
			SELECT SUM(e.amount) FROM credit_entries e
			JOIN transactions t ON t.transaction_id = e.transaction_id
			WHERE t.address_id = $1 AND e.account_number = $2 AND NOT t.is_deleted AND t.transaction_date <= $3
		), 0);
	`
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, addressID, domain.SuspenseAccountNumber, until).Scan(&balance)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute suspense balance for address "+addressID, err)
	}
	return balance, nil
}

// DeleteCheckpoint removes a checkpoint and clears its stamp from the
// transactions it closed. Only the address's most recent checkpoint may go,
// and year-end checkpoints are permanent.
func (r *PgxCheckpointRepository) DeleteCheckpoint(ctx context.Context, checkpointID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var addressID string
	var date time.Time
	var isYearEnd bool
	err = tx.QueryRow(ctx, `
		SELECT address_id, checkpoint_date, is_year_end FROM checkpoints WHERE checkpoint_id = $1;
	`, checkpointID).Scan(&addressID, &date, &isYearEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to find checkpoint "+checkpointID, err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, addressID); err != nil {
		return apperrors.NewAppError(500, "failed to acquire address lock for "+addressID, err)
	}

	if isYearEnd {
		return fmt.Errorf("%w: year-end checkpoints cannot be deleted", apperrors.ErrBusinessRule)
	}

	var latest time.Time
	err = tx.QueryRow(ctx, `SELECT MAX(checkpoint_date) FROM checkpoints WHERE address_id = $1;`, addressID).Scan(&latest)
	if err != nil {
		return apperrors.NewAppError(500, "failed to read latest checkpoint for address "+addressID, err)
	}
	if !date.Equal(latest) {
		return fmt.Errorf("%w: only the most recent checkpoint can be deleted", apperrors.ErrBusinessRule)
	}

	if _, err := tx.Exec(ctx, `UPDATE transactions SET checkpoint_id = NULL WHERE checkpoint_id = $1;`, checkpointID); err != nil {
		return apperrors.NewAppError(500, "failed to clear checkpoint stamp "+checkpointID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM checkpoints WHERE checkpoint_id = $1;`, checkpointID); err != nil {
		return apperrors.NewAppError(500, "failed to delete checkpoint "+checkpointID, err)
	}

	return r.Commit(ctx, tx)
}

// FindCheckpointByID retrieves a single checkpoint.
func (r *PgxCheckpointRepository) FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error) {
	cp, err := scanCheckpoint(r.Pool.QueryRow(ctx, `SELECT `+checkpointColumns+` FROM checkpoints WHERE checkpoint_id = $1;`, checkpointID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find checkpoint by ID "+checkpointID, err)
	}
	return cp, nil
}

// FindLatestCheckpoint returns the most recent checkpoint for the address,
// or nil when none exists.
func (r *PgxCheckpointRepository) FindLatestCheckpoint(ctx context.Context, addressID string) (*domain.Checkpoint, error) {
	cp, err := scanCheckpoint(r.Pool.QueryRow(ctx, `
		SELECT `+checkpointColumns+` FROM checkpoints
		WHERE address_id = $1
		ORDER BY checkpoint_date DESC LIMIT 1;
	`, addressID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find latest checkpoint for address "+addressID, err)
	}
	return cp, nil
}

// ListCheckpoints returns every checkpoint of the address, newest first.
func (r *PgxCheckpointRepository) ListCheckpoints(ctx context.Context, addressID string) ([]domain.Checkpoint, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+checkpointColumns+` FROM checkpoints
		WHERE address_id = $1
		ORDER BY checkpoint_date DESC;
	`, addressID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list checkpoints for address "+addressID, err)
	}
	defer rows.Close()

	checkpoints := []domain.Checkpoint{}
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan checkpoint row for address "+addressID, err)
		}
		checkpoints = append(checkpoints, *cp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating checkpoint rows for address "+addressID, err)
	}
	return checkpoints, nil
}

func scanCheckpoint(row pgx.Row) (*domain.Checkpoint, error) {
	var cp domain.Checkpoint
	err := row.Scan(
		&cp.CheckpointID, &cp.AddressID, &cp.Date, &cp.ClosingBalance, &cp.IsYearEnd,
		&cp.CreatedAt, &cp.CreatedBy, &cp.LastUpdatedAt, &cp.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}
