package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Transaction: newPgxTransactionRepository(dbPool),
		Allocation:  newPgxAllocationRepository(dbPool),
		Checkpoint:  newPgxCheckpointRepository(dbPool),
		Account:     newPgxAccountRepository(dbPool),
		TaxRate:     newPgxTaxRateRepository(dbPool),
		APIToken:    newPgxAPITokenRepository(dbPool),
	}
}
