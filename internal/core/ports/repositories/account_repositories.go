package repositories

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// AccountReader defines read operations for nominal accounts.
type AccountReader interface {
	// FindAddressAccounts returns every account bound to the address, keyed by
	// account number, with the global definition populated.
	FindAddressAccounts(ctx context.Context, addressID string) (map[int64]domain.AddressAccount, error)

	FindAddressAccountByNumber(ctx context.Context, addressID string, accountNumber int64) (*domain.AddressAccount, error)

	FindGlobalAccount(ctx context.Context, organizationID string, accountNumber int64) (*domain.GlobalAccount, error)
}

// AccountWriter defines write operations for nominal accounts.
type AccountWriter interface {
	SaveGlobalAccount(ctx context.Context, account domain.GlobalAccount) error
	SaveAddressAccount(ctx context.Context, account domain.AddressAccount) error
	UpdateAddressAccount(ctx context.Context, account domain.AddressAccount) error
	DeactivateAddressAccount(ctx context.Context, addressAccountID, updatedBy string) error
}

// AccountRepositoryFacade combines account reads and writes.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
