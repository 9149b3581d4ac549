package dto

import (
	"time"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// CreateAPITokenRequest issues a new machine credential for an address.
type CreateAPITokenRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateAPITokenResponse carries the cleartext token exactly once.
type CreateAPITokenResponse struct {
	TokenID string `json:"tokenID"`
	Name    string `json:"name"`
	Token   string `json:"token"` // Shown only at creation
}

// APITokenResponse is the API shape of a stored token (no secret).
type APITokenResponse struct {
	TokenID    string     `json:"tokenID"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ToAPITokenResponse converts a domain.APIToken to its API shape.
func ToAPITokenResponse(t *domain.APIToken) APITokenResponse {
	return APITokenResponse{
		TokenID:    t.TokenID,
		Name:       t.Name,
		LastUsedAt: t.LastUsedAt,
		RevokedAt:  t.RevokedAt,
		CreatedAt:  t.CreatedAt,
	}
}
