package repositories

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// TaxRateReader defines read operations for tax rates.
type TaxRateReader interface {
	// FindTaxRatesByAddress returns the address's rates keyed by id.
	FindTaxRatesByAddress(ctx context.Context, addressID string) (map[string]domain.TaxRate, error)
	FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error)
}

// TaxRateWriter defines write operations for tax rates. Edits never touch
// percents already snapshotted into line entries.
type TaxRateWriter interface {
	SaveTaxRate(ctx context.Context, rate domain.TaxRate) error
	UpdateTaxRate(ctx context.Context, rate domain.TaxRate) error
	DeactivateTaxRate(ctx context.Context, taxRateID, updatedBy string) error
}

// TaxRateRepositoryFacade combines tax rate reads and writes.
type TaxRateRepositoryFacade interface {
	TaxRateReader
	TaxRateWriter
}
