package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
)

// PgxAccountRepository persists nominal accounts using pgx.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new account repository.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const addressAccountJoin = `
	SELECT aa.address_account_id, aa.address_id, aa.account_number, aa.currency_code, aa.description, aa.is_active,
	       aa.created_at, aa.created_by, aa.last_updated_at, aa.last_updated_by,
	       ga.account_number, ga.organization_id, ga.description, ga.valid_sales_account, ga.valid_purchases_account,
	       ga.created_at, ga.created_by, ga.last_updated_at, ga.last_updated_by
	FROM address_accounts aa
	JOIN global_accounts ga ON ga.organization_id = aa.organization_id AND ga.account_number = aa.account_number
`

// SaveGlobalAccount inserts an organization-level account definition.
func (r *PgxAccountRepository) SaveGlobalAccount(ctx context.Context, account domain.GlobalAccount) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO global_accounts (account_number, organization_id, description, valid_sales_account, valid_purchases_account,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, account.AccountNumber, account.OrganizationID, account.Description,
		account.ValidSalesAccount, account.ValidPurchasesAccount,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %d", apperrors.ErrDuplicate, account.AccountNumber)
		}
		return apperrors.NewAppError(500, fmt.Sprintf("failed to insert global account %d", account.AccountNumber), err)
	}
	return nil
}

// SaveAddressAccount binds a global account to one address. The global
// definition must be populated on the domain value.
func (r *PgxAccountRepository) SaveAddressAccount(ctx context.Context, account domain.AddressAccount) error {
	if account.Global == nil {
		return apperrors.NewAppError(500, "address account is missing its global definition", nil)
	}
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO address_accounts (address_account_id, address_id, organization_id, account_number, currency_code, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, account.AddressAccountID, account.AddressID, account.Global.OrganizationID, account.AccountNumber,
		account.CurrencyCode, account.Description, account.IsActive,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %d already bound to address %s", apperrors.ErrDuplicate, account.AccountNumber, account.AddressID)
		}
		return apperrors.NewAppError(500, "failed to insert address account "+account.AddressAccountID, err)
	}
	return nil
}

// UpdateAddressAccount updates the mutable fields of an address binding.
func (r *PgxAccountRepository) UpdateAddressAccount(ctx context.Context, account domain.AddressAccount) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE address_accounts
		SET description = $1, is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE address_account_id = $5;
	`, account.Description, account.IsActive, account.LastUpdatedAt, account.LastUpdatedBy, account.AddressAccountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update address account "+account.AddressAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAddressAccount marks an address binding inactive.
func (r *PgxAccountRepository) DeactivateAddressAccount(ctx context.Context, addressAccountID, updatedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE address_accounts
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $1
		WHERE address_account_id = $2 AND is_active;
	`, updatedBy, addressAccountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate address account "+addressAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAddressAccounts returns every account bound to the address, keyed by
// account number, with the global definition populated.
func (r *PgxAccountRepository) FindAddressAccounts(ctx context.Context, addressID string) (map[int64]domain.AddressAccount, error) {
	rows, err := r.Pool.Query(ctx, addressAccountJoin+` WHERE aa.address_id = $1;`, addressID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for address "+addressID, err)
	}
	defer rows.Close()

	accounts := make(map[int64]domain.AddressAccount)
	for rows.Next() {
		account, err := scanAddressAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row for address "+addressID, err)
		}
		accounts[account.AccountNumber] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for address "+addressID, err)
	}
	return accounts, nil
}

// FindAddressAccountByNumber retrieves one address binding with its global
// definition populated.
func (r *PgxAccountRepository) FindAddressAccountByNumber(ctx context.Context, addressID string, accountNumber int64) (*domain.AddressAccount, error) {
	account, err := scanAddressAccount(r.Pool.QueryRow(ctx, addressAccountJoin+` WHERE aa.address_id = $1 AND aa.account_number = $2;`, addressID, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find account %d for address %s", accountNumber, addressID), err)
	}
	return account, nil
}

// FindGlobalAccount retrieves one organization-level account definition.
func (r *PgxAccountRepository) FindGlobalAccount(ctx context.Context, organizationID string, accountNumber int64) (*domain.GlobalAccount, error) {
	var ga domain.GlobalAccount
	err := r.Pool.QueryRow(ctx, `
		SELECT account_number, organization_id, description, valid_sales_account, valid_purchases_account,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM global_accounts
		WHERE organization_id = $1 AND account_number = $2;
	`, organizationID, accountNumber).Scan(
		&ga.AccountNumber, &ga.OrganizationID, &ga.Description, &ga.ValidSalesAccount, &ga.ValidPurchasesAccount,
		&ga.CreatedAt, &ga.CreatedBy, &ga.LastUpdatedAt, &ga.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find global account %d in organization %s", accountNumber, organizationID), err)
	}
	return &ga, nil
}

func scanAddressAccount(row pgx.Row) (*domain.AddressAccount, error) {
	var aa domain.AddressAccount
	var ga domain.GlobalAccount
	err := row.Scan(
		&aa.AddressAccountID, &aa.AddressID, &aa.AccountNumber, &aa.CurrencyCode, &aa.Description, &aa.IsActive,
		&aa.CreatedAt, &aa.CreatedBy, &aa.LastUpdatedAt, &aa.LastUpdatedBy,
		&ga.AccountNumber, &ga.OrganizationID, &ga.Description, &ga.ValidSalesAccount, &ga.ValidPurchasesAccount,
		&ga.CreatedAt, &ga.CreatedBy, &ga.LastUpdatedAt, &ga.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	aa.Global = &ga
	return &aa, nil
}
