package repositories

import (
	"context"
	"time"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	OtherAddressID *string
	TxnType        *domain.TxnType
	DateFrom       *time.Time
	DateTo         *time.Time
	IncludeDeleted bool
}

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with both line collections populated.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByTSN retrieves a transaction by its per-address-per-type sequence number.
	FindTransactionByTSN(ctx context.Context, addressID string, txnType domain.TxnType, tsn int64) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of transaction headers.
	ListTransactions(ctx context.Context, addressID string, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListOutstanding retrieves headers with a non-zero unallocated balance for
	// one counterparty, restricted to one ledger direction.
	ListOutstanding(ctx context.Context, addressID, otherAddressID string, sales bool) ([]domain.Transaction, error)

	// LatestCheckpointDate returns the date of the address's most recent
	// checkpoint, or nil when the address has never closed a period.
	LatestCheckpointDate(ctx context.Context, addressID string) (*time.Time, error)
}

// TransactionWriter defines write operations for ledger transactions. Every
// method is atomic: a transaction and all of its line entries are persisted
// in one database transaction or not at all.
type TransactionWriter interface {
	// SaveTransaction persists a header and its lines, assigning the next TSN
	// for (address, type) under lock. It re-verifies the checkpoint guard
	// inside the same database transaction so a concurrent period close cannot
	// lock out the date mid-flight. On success txn.TSN is populated.
	SaveTransaction(ctx context.Context, txn *domain.Transaction) error

	// SaveContraTransaction persists the counterparty's mirror and stamps the
	// exclusive contra back-reference on the source in the same database
	// transaction. The source row is locked and the reference compare-and-set:
	// a second concurrent contra fails with ErrConflict.
	SaveContraTransaction(ctx context.Context, sourceTransactionID string, contra *domain.Transaction) error

	// UpdateTransactionNarrative updates non-financial metadata only.
	UpdateTransactionNarrative(ctx context.Context, transactionID, narrative string, reportTemplateID *string, updatedBy string, updatedAt time.Time) error

	// MarkTransactionDeleted soft-marks a transaction. Lines are kept.
	MarkTransactionDeleted(ctx context.Context, transactionID, updatedBy string, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines transaction reads and writes.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
