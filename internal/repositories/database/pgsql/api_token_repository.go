package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
)

// PgxAPITokenRepository persists machine credentials using pgx.
type PgxAPITokenRepository struct {
	BaseRepository
}

// newPgxAPITokenRepository creates a new API token repository.
func newPgxAPITokenRepository(pool *pgxpool.Pool) *PgxAPITokenRepository {
	return &PgxAPITokenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.APITokenRepositoryFacade = (*PgxAPITokenRepository)(nil)

const apiTokenColumns = `token_id, address_id, name, token_hash, last_used_at, revoked_at,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveAPIToken inserts a new token. Only the hash of the secret is stored.
func (r *PgxAPITokenRepository) SaveAPIToken(ctx context.Context, token domain.APIToken) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO api_tokens (`+apiTokenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, token.TokenID, token.AddressID, token.Name, token.TokenHash, token.LastUsedAt, token.RevokedAt,
		token.CreatedAt, token.CreatedBy, token.LastUpdatedAt, token.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert API token "+token.TokenID, err)
	}
	return nil
}

// FindAPITokenByID retrieves one token.
func (r *PgxAPITokenRepository) FindAPITokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error) {
	token, err := scanAPIToken(r.Pool.QueryRow(ctx, `SELECT `+apiTokenColumns+` FROM api_tokens WHERE token_id = $1;`, tokenID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find API token by ID "+tokenID, err)
	}
	return token, nil
}

// ListAPITokensByAddress retrieves every token of an address, newest first.
func (r *PgxAPITokenRepository) ListAPITokensByAddress(ctx context.Context, addressID string) ([]domain.APIToken, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+apiTokenColumns+` FROM api_tokens
		WHERE address_id = $1
		ORDER BY created_at DESC;
	`, addressID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list API tokens for address "+addressID, err)
	}
	defer rows.Close()

	tokens := []domain.APIToken{}
	for rows.Next() {
		token, err := scanAPIToken(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan API token row for address "+addressID, err)
		}
		tokens = append(tokens, *token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating API token rows for address "+addressID, err)
	}
	return tokens, nil
}

// TouchAPIToken records the last successful authentication time.
func (r *PgxAPITokenRepository) TouchAPIToken(ctx context.Context, tokenID string, usedAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE api_tokens SET last_used_at = $1 WHERE token_id = $2;`, usedAt, tokenID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to touch API token "+tokenID, err)
	}
	return nil
}

// RevokeAPIToken permanently disables a token.
func (r *PgxAPITokenRepository) RevokeAPIToken(ctx context.Context, tokenID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE api_tokens SET revoked_at = NOW(), last_updated_at = NOW()
		WHERE token_id = $1 AND revoked_at IS NULL;
	`, tokenID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revoke API token "+tokenID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanAPIToken(row pgx.Row) (*domain.APIToken, error) {
	var token domain.APIToken
	var lastUsedAt, revokedAt sql.NullTime
	err := row.Scan(
		&token.TokenID, &token.AddressID, &token.Name, &token.TokenHash, &lastUsedAt, &revokedAt,
		&token.CreatedAt, &token.CreatedBy, &token.LastUpdatedAt, &token.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if lastUsedAt.Valid {
		token.LastUsedAt = &lastUsedAt.Time
	}
	if revokedAt.Valid {
		token.RevokedAt = &revokedAt.Time
	}
	return &token, nil
}
