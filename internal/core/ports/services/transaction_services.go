package services

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

// TransactionSvcFacade is the entry point every transaction type funnels
// through: pricing, taxing, balancing, contra mirroring and persistence.
type TransactionSvcFacade interface {
	// CreateTransaction prices and persists one transaction of the given type
	// for the address. The returned transaction carries its assigned TSN and
	// both balanced line collections.
	CreateTransaction(ctx context.Context, addressID string, txnType domain.TxnType, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// CreateContra mirrors a counterparty's posted transaction into the
	// caller's ledger, re-taxing and re-converting in the caller's context,
	// and stamps the exclusive back-reference on the source.
	CreateContra(ctx context.Context, addressID string, req dto.CreateContraRequest, userID string) (*domain.Transaction, error)

	GetTransaction(ctx context.Context, addressID, transactionID string) (*domain.Transaction, error)
	GetTransactionByTSN(ctx context.Context, addressID string, txnType domain.TxnType, tsn int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, addressID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListOutstanding returns transactions with a non-zero unallocated balance
	// against one counterparty, for one ledger direction.
	ListOutstanding(ctx context.Context, addressID, otherAddressID string, sales bool) ([]dto.TransactionResponse, error)

	// UpdateTransaction changes non-financial metadata; blocked once the
	// transaction is contra'd or closed by a checkpoint.
	UpdateTransaction(ctx context.Context, addressID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction soft-marks a transaction; blocked once contra'd,
	// allocated or closed.
	DeleteTransaction(ctx context.Context, addressID, transactionID, userID string) error
}
