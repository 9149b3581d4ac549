package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	"github.com/openbooks/bookkeeping_backend/internal/utils/pagination"
)

// PgxTransactionRepository persists ledger transactions using pgx.
type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new transaction repository.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, address_id, other_address_id, txn_type, tsn, transaction_date, narrative,
	report_template_id, unallocated, contra_transaction_id, checkpoint_id, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

const lineEntryColumns = `line_entry_id, transaction_id, account_number, amount, unit_price, quantity,
	exchange_rate, tax_percent, description, part_number,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveTransaction persists a header and all of its line entries atomically,
// assigning the next TSN for (address, type) inside the same database
// transaction. The per-address advisory lock serializes against checkpoint
// creation so the closed-period guard cannot be raced.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertTransactionTx(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveContraTransaction persists the counterparty mirror and stamps the
// exclusive back-reference on the source row with a compare-and-set. Losing
// the race to a concurrent contra surfaces as ErrConflict.
func (r *PgxTransactionRepository) SaveContraTransaction(ctx context.Context, sourceTransactionID string, contra *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertTransactionTx(ctx, tx, contra); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET contra_transaction_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND contra_transaction_id IS NULL AND NOT is_deleted;
	`, contra.TransactionID, contra.CreatedAt, contra.CreatedBy, sourceTransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp contra reference on transaction "+sourceTransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s already has a contra", apperrors.ErrConflict, sourceTransactionID)
	}

	return r.Commit(ctx, tx)
}

// insertTransactionTx runs the closed-period re-check, TSN assignment, and
// the header/line inserts on an open database transaction.
func (r *PgxTransactionRepository) insertTransactionTx(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	// Same lock key as checkpoint creation; holds until commit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, txn.AddressID); err != nil {
		return apperrors.NewAppError(500, "failed to acquire address lock for "+txn.AddressID, err)
	}

	var latestClose sql.NullTime
	err := tx.QueryRow(ctx, `SELECT MAX(checkpoint_date) FROM checkpoints WHERE address_id = $1;`, txn.AddressID).Scan(&latestClose)
	if err != nil {
		return apperrors.NewAppError(500, "failed to read latest checkpoint for address "+txn.AddressID, err)
	}
	if latestClose.Valid && !txn.TransactionDate.After(latestClose.Time) {
		return fmt.Errorf("%w: transaction date %s falls in a closed period",
			apperrors.ErrBusinessRule, txn.TransactionDate.Format(time.DateOnly))
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO tsn_sequences (address_id, txn_type, next_tsn)
		VALUES ($1, $2, 1)
		ON CONFLICT (address_id, txn_type)
		DO UPDATE SET next_tsn = tsn_sequences.next_tsn + 1
		RETURNING next_tsn;
	`, txn.AddressID, txn.TxnType).Scan(&txn.TSN)
	if err != nil {
		return apperrors.NewAppError(500, "failed to assign TSN for address "+txn.AddressID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`,
		txn.TransactionID, txn.AddressID, txn.OtherAddressID, txn.TxnType, txn.TSN,
		txn.TransactionDate, txn.Narrative, txn.ReportTemplateID, txn.Unallocated,
		txn.ContraTransactionID, txn.CheckpointID, txn.IsDeleted,
		txn.CreatedAt, txn.CreatedBy, txn.LastUpdatedAt, txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	batch := &pgx.Batch{}
	queueLineEntries(batch, "debit_entries", txn.Debits)
	queueLineEntries(batch, "credit_entries", txn.Credits)
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return apperrors.NewAppError(500, "failed to insert line entry for transaction "+txn.TransactionID, err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close line entry batch for transaction "+txn.TransactionID, err)
	}

	return nil
}

func queueLineEntries(batch *pgx.Batch, table string, entries []domain.LineEntry) {
	query := `
		INSERT INTO ` + table + ` (` + lineEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, e := range entries {
		batch.Queue(query,
			e.LineEntryID, e.TransactionID, e.AccountNumber, e.Amount, e.UnitPrice, e.Quantity,
			e.ExchangeRate, e.TaxPercent, e.Description, e.PartNumber,
			e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
		)
	}
}

// FindTransactionByID retrieves a transaction with both line collections populated.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	if err := r.loadLineEntries(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// FindTransactionByTSN retrieves a transaction by its per-address-per-type sequence number.
func (r *PgxTransactionRepository) FindTransactionByTSN(ctx context.Context, addressID string, txnType domain.TxnType, tsn int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE address_id = $1 AND txn_type = $2 AND tsn = $3;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, addressID, txnType, tsn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find transaction %s/%d for address %s", txnType, tsn, addressID), err)
	}

	if err := r.loadLineEntries(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *PgxTransactionRepository) loadLineEntries(ctx context.Context, txn *domain.Transaction) error {
	var err error
	txn.Debits, err = r.findLineEntries(ctx, "debit_entries", txn.TransactionID)
	if err != nil {
		return err
	}
	txn.Credits, err = r.findLineEntries(ctx, "credit_entries", txn.TransactionID)
	return err
}

func (r *PgxTransactionRepository) findLineEntries(ctx context.Context, table, transactionID string) ([]domain.LineEntry, error) {
	query := `SELECT ` + lineEntryColumns + ` FROM ` + table + ` WHERE transaction_id = $1 ORDER BY created_at, line_entry_id;`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+table+" for transaction "+transactionID, err)
	}
	defer rows.Close()

	entries := []domain.LineEntry{}
	for rows.Next() {
		var e domain.LineEntry
		var partNumber sql.NullString
		err := rows.Scan(
			&e.LineEntryID, &e.TransactionID, &e.AccountNumber, &e.Amount, &e.UnitPrice, &e.Quantity,
			&e.ExchangeRate, &e.TaxPercent, &e.Description, &partNumber,
			&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan "+table+" row for transaction "+transactionID, err)
		}
		if partNumber.Valid {
			e.PartNumber = partNumber.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating "+table+" rows for transaction "+transactionID, err)
	}
	return entries, nil
}

// ListTransactions retrieves a filtered page of transaction headers using
// token-based pagination. Line entries are not populated.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, addressID string, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE address_id = $1`
	args := []interface{}{addressID}

	if !filter.IncludeDeleted {
		query += ` AND NOT is_deleted`
	}
	if filter.OtherAddressID != nil {
		args = append(args, *filter.OtherAddressID)
		query += ` AND other_address_id = $` + strconv.Itoa(len(args))
	}
	if filter.TxnType != nil {
		args = append(args, *filter.TxnType)
		query += ` AND txn_type = $` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND transaction_date <= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison keeps the cursor stable under the matching ORDER BY.
		args = append(args, lastDate, lastCreatedAt)
		query += fmt.Sprintf(` AND (transaction_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY transaction_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transactions for address "+addressID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for address "+addressID, err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for address "+addressID, err)
	}

	var token *string
	if len(transactions) == fetchLimit {
		transactions = transactions[:limit]
		last := transactions[limit-1]
		t := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		token = &t
	}
	return transactions, token, nil
}

// ListOutstanding retrieves headers with a non-zero unallocated balance for
// one counterparty, restricted to one ledger direction.
func (r *PgxTransactionRepository) ListOutstanding(ctx context.Context, addressID, otherAddressID string, sales bool) ([]domain.Transaction, error) {
	types := domain.PurchaseLedgerTypes()
	if sales {
		types = domain.SalesLedgerTypes()
	}
	typeCodes := make([]string, len(types))
	for i, t := range types {
		typeCodes[i] = string(t)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE address_id = $1 AND other_address_id = $2 AND txn_type = ANY($3)
		  AND unallocated <> 0 AND NOT is_deleted
		ORDER BY transaction_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, addressID, otherAddressID, typeCodes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list outstanding transactions for address "+addressID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan outstanding transaction row for address "+addressID, err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating outstanding transaction rows for address "+addressID, err)
	}
	return transactions, nil
}

// LatestCheckpointDate returns the date of the address's most recent
// checkpoint, or nil when the address has never closed a period.
func (r *PgxTransactionRepository) LatestCheckpointDate(ctx context.Context, addressID string) (*time.Time, error) {
	var latest sql.NullTime
	err := r.Pool.QueryRow(ctx, `SELECT MAX(checkpoint_date) FROM checkpoints WHERE address_id = $1;`, addressID).Scan(&latest)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read latest checkpoint date for address "+addressID, err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// UpdateTransactionNarrative updates non-financial metadata only.
func (r *PgxTransactionRepository) UpdateTransactionNarrative(ctx context.Context, transactionID, narrative string, reportTemplateID *string, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE transactions
		SET narrative = $1, report_template_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $5 AND NOT is_deleted;
	`, narrative, reportTemplateID, updatedAt, updatedBy, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkTransactionDeleted soft-marks a transaction. Lines are kept.
func (r *PgxTransactionRepository) MarkTransactionDeleted(ctx context.Context, transactionID, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE transactions
		SET is_deleted = TRUE, last_updated_at = $1, last_updated_by = $2
		WHERE transaction_id = $3 AND NOT is_deleted;
	`, updatedAt, updatedBy, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction deleted "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanTransaction scans one header row in transactionColumns order.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var otherAddressID, reportTemplateID, contraID, checkpointID sql.NullString
	err := row.Scan(
		&txn.TransactionID, &txn.AddressID, &otherAddressID, &txn.TxnType, &txn.TSN,
		&txn.TransactionDate, &txn.Narrative, &reportTemplateID, &txn.Unallocated,
		&contraID, &checkpointID, &txn.IsDeleted,
		&txn.CreatedAt, &txn.CreatedBy, &txn.LastUpdatedAt, &txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if otherAddressID.Valid {
		txn.OtherAddressID = &otherAddressID.String
	}
	if reportTemplateID.Valid {
		txn.ReportTemplateID = &reportTemplateID.String
	}
	if contraID.Valid {
		txn.ContraTransactionID = &contraID.String
	}
	if checkpointID.Valid {
		txn.CheckpointID = &checkpointID.String
	}
	return &txn, nil
}
