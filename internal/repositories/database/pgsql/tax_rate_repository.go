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

// PgxTaxRateRepository persists tax rates using pgx.
type PgxTaxRateRepository struct {
	BaseRepository
}

// newPgxTaxRateRepository creates a new tax rate repository.
func newPgxTaxRateRepository(pool *pgxpool.Pool) *PgxTaxRateRepository {
	return &PgxTaxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxRateRepositoryFacade = (*PgxTaxRateRepository)(nil)

const taxRateColumns = `tax_rate_id, address_id, description, percent, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveTaxRate inserts a new tax rate.
func (r *PgxTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO tax_rates (`+taxRateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, rate.TaxRateID, rate.AddressID, rate.Description, rate.Percent, rate.IsActive,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tax rate %s", apperrors.ErrDuplicate, rate.TaxRateID)
		}
		return apperrors.NewAppError(500, "failed to insert tax rate "+rate.TaxRateID, err)
	}
	return nil
}

// UpdateTaxRate updates a tax rate. Percents already snapshotted into line
// entries are untouched.
func (r *PgxTaxRateRepository) UpdateTaxRate(ctx context.Context, rate domain.TaxRate) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE tax_rates
		SET description = $1, percent = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tax_rate_id = $6;
	`, rate.Description, rate.Percent, rate.IsActive, rate.LastUpdatedAt, rate.LastUpdatedBy, rate.TaxRateID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update tax rate "+rate.TaxRateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateTaxRate marks a tax rate inactive.
func (r *PgxTaxRateRepository) DeactivateTaxRate(ctx context.Context, taxRateID, updatedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE tax_rates
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $1
		WHERE tax_rate_id = $2 AND is_active;
	`, updatedBy, taxRateID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate tax rate "+taxRateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTaxRatesByAddress returns the address's rates keyed by id.
func (r *PgxTaxRateRepository) FindTaxRatesByAddress(ctx context.Context, addressID string) (map[string]domain.TaxRate, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+taxRateColumns+` FROM tax_rates WHERE address_id = $1;`, addressID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax rates for address "+addressID, err)
	}
	defer rows.Close()

	rates := make(map[string]domain.TaxRate)
	for rows.Next() {
		var rate domain.TaxRate
		err := rows.Scan(
			&rate.TaxRateID, &rate.AddressID, &rate.Description, &rate.Percent, &rate.IsActive,
			&rate.CreatedAt, &rate.CreatedBy, &rate.LastUpdatedAt, &rate.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax rate row for address "+addressID, err)
		}
		rates[rate.TaxRateID] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax rate rows for address "+addressID, err)
	}
	return rates, nil
}

// FindTaxRateByID retrieves one tax rate.
func (r *PgxTaxRateRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := r.Pool.QueryRow(ctx, `SELECT `+taxRateColumns+` FROM tax_rates WHERE tax_rate_id = $1;`, taxRateID).Scan(
		&rate.TaxRateID, &rate.AddressID, &rate.Description, &rate.Percent, &rate.IsActive,
		&rate.CreatedAt, &rate.CreatedBy, &rate.LastUpdatedAt, &rate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tax rate by ID "+taxRateID, err)
	}
	return &rate, nil
}
