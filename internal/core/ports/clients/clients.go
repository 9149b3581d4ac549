// Package clients defines the ports to the external collaborators the ledger
// core depends on: the master-data directory, the reporting service and the
// post-persist notification dispatcher.
package clients

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// DirectoryClient resolves master data owned by the external directory
// service. Lookups are read-only and authoritative; an unresolvable id is a
// validation failure of the referencing field, never silently defaulted.
type DirectoryClient interface {
	// ResolveAddress returns the address or an ErrValidation-wrapped error
	// when the directory does not know the id.
	ResolveAddress(ctx context.Context, addressID string) (*domain.Address, error)

	// ResolveCurrency reports whether the currency code exists.
	ResolveCurrency(ctx context.Context, code string) (bool, error)
}

// ReportingClient validates report template references.
type ReportingClient interface {
	// ValidateTemplate fails when the template does not exist or does not
	// match the transaction type it is attached to.
	ValidateTemplate(ctx context.Context, templateID string, txnType domain.TxnType) error
}

// Notifier dispatches a statement of a persisted cross-address transaction
// to the counterparty. Invoked after commit, fire-and-forget: a failure here
// must never roll back the financial write.
type Notifier interface {
	NotifyTransaction(ctx context.Context, counterparty domain.Address, txn domain.Transaction) error
}
