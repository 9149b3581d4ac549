package repositories

import (
	"context"
	"time"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// APITokenRepositoryFacade stores machine credentials scoped to an address.
type APITokenRepositoryFacade interface {
	SaveAPIToken(ctx context.Context, token domain.APIToken) error
	FindAPITokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error)
	ListAPITokensByAddress(ctx context.Context, addressID string) ([]domain.APIToken, error)
	TouchAPIToken(ctx context.Context, tokenID string, usedAt time.Time) error
	RevokeAPIToken(ctx context.Context, tokenID string) error
}
