package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/utils"
)

// apiTokenService issues and verifies address-scoped machine credentials.
// Presented tokens have the form "<tokenID>.<secret>"; only the bcrypt hash
// of the secret is stored.
type apiTokenService struct {
	tokenRepo portsrepo.APITokenRepositoryFacade
}

// NewAPITokenService creates the API token service.
func NewAPITokenService(tokenRepo portsrepo.APITokenRepositoryFacade) portssvc.APITokenSvcFacade {
	return &apiTokenService{tokenRepo: tokenRepo}
}

var _ portssvc.APITokenSvcFacade = (*apiTokenService)(nil)

// CreateAPIToken implements portssvc.APITokenSvcFacade. The cleartext
// credential is returned exactly once.
func (s *apiTokenService) CreateAPIToken(ctx context.Context, addressID string, req dto.CreateAPITokenRequest, userID string) (*dto.CreateAPITokenResponse, error) {
	secret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash token: %w", err)
	}

	now := time.Now().UTC()
	token := domain.APIToken{
		TokenID:   uuid.NewString(),
		AddressID: addressID,
		Name:      req.Name,
		TokenHash: string(hash),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.tokenRepo.SaveAPIToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	return &dto.CreateAPITokenResponse{
		TokenID: token.TokenID,
		Name:    token.Name,
		Token:   token.TokenID + "." + secret,
	}, nil
}

// ListAPITokens implements portssvc.APITokenSvcFacade.
func (s *apiTokenService) ListAPITokens(ctx context.Context, addressID string) ([]domain.APIToken, error) {
	tokens, err := s.tokenRepo.ListAPITokensByAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// VerifyAPIToken implements portssvc.APITokenSvcFacade.
func (s *apiTokenService) VerifyAPIToken(ctx context.Context, presented string) (*domain.APIToken, error) {
	tokenID, secret, ok := strings.Cut(presented, ".")
	if !ok || tokenID == "" || secret == "" {
		return nil, fmt.Errorf("%w: malformed API token", apperrors.ErrValidation)
	}

	token, err := s.tokenRepo.FindAPITokenByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("unknown API token: %w", err)
	}
	if !token.Active() {
		return nil, fmt.Errorf("%w: API token revoked", apperrors.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)) != nil {
		return nil, fmt.Errorf("%w: API token secret mismatch", apperrors.ErrForbidden)
	}

	// Best effort; verification succeeds even if the touch fails.
	_ = s.tokenRepo.TouchAPIToken(ctx, token.TokenID, time.Now().UTC())
	return token, nil
}

// RevokeAPIToken implements portssvc.APITokenSvcFacade.
func (s *apiTokenService) RevokeAPIToken(ctx context.Context, addressID, tokenID, userID string) error {
	token, err := s.tokenRepo.FindAPITokenByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.AddressID != addressID {
		return apperrors.ErrNotFound
	}
	return s.tokenRepo.RevokeAPIToken(ctx, tokenID)
}
