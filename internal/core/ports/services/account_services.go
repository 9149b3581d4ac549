package services

import (
	"context"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

// AccountSvcFacade manages the two-tier nominal account structure.
type AccountSvcFacade interface {
	CreateGlobalAccount(ctx context.Context, organizationID string, req dto.CreateGlobalAccountRequest, userID string) (*domain.GlobalAccount, error)
	CreateAddressAccount(ctx context.Context, addressID string, req dto.CreateAddressAccountRequest, userID string) (*domain.AddressAccount, error)
	ListAddressAccounts(ctx context.Context, addressID string) ([]domain.AddressAccount, error)
	UpdateAddressAccount(ctx context.Context, addressID, addressAccountID string, req dto.UpdateAddressAccountRequest, userID string) (*domain.AddressAccount, error)
	DeactivateAddressAccount(ctx context.Context, addressID, addressAccountID, userID string) error
}

// TaxRateSvcFacade manages per-address tax rates.
type TaxRateSvcFacade interface {
	CreateTaxRate(ctx context.Context, addressID string, req dto.CreateTaxRateRequest, userID string) (*domain.TaxRate, error)
	ListTaxRates(ctx context.Context, addressID string) ([]domain.TaxRate, error)
	UpdateTaxRate(ctx context.Context, addressID, taxRateID string, req dto.UpdateTaxRateRequest, userID string) (*domain.TaxRate, error)
	DeactivateTaxRate(ctx context.Context, addressID, taxRateID, userID string) error
}

// APITokenSvcFacade issues and verifies machine credentials.
type APITokenSvcFacade interface {
	CreateAPIToken(ctx context.Context, addressID string, req dto.CreateAPITokenRequest, userID string) (*dto.CreateAPITokenResponse, error)
	ListAPITokens(ctx context.Context, addressID string) ([]domain.APIToken, error)
	// VerifyAPIToken checks a presented "id.secret" credential and returns the
	// address it is scoped to.
	VerifyAPIToken(ctx context.Context, presented string) (*domain.APIToken, error)
	RevokeAPIToken(ctx context.Context, addressID, tokenID, userID string) error
}
