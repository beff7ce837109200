package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/models"
)

type RefreshTokenRepo struct {
	db DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, token, user_id, expires_at, revoked, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, token, user_id, expires_at, revoked, created_at
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	rows, _ := r.db.Query(ctx, saveToken,
		token.ID, token.Token, token.UserID, token.ExpiresAt, token.Revoked, token.CreatedAt,
	)
	saved, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const getToken = `-- name: GetRefreshToken
SELECT id, token, user_id, expires_at, revoked, created_at
FROM refresh_tokens
WHERE token = $1
`

// Get returns the record whatever its state, expired and revoked included
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.db.Query(ctx, getToken, tokenString)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeToken = `-- name: RevokeRefreshToken
UPDATE refresh_tokens
SET revoked = TRUE
WHERE token = $1
`

// Revoke sets the revoked flag. Revoking an already revoked token is a no-op
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenString string) error {
	tag, err := r.db.Exec(ctx, revokeToken, tokenString)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	}
	return nil
}

const deleteExpiredTokens = `-- name: DeleteExpiredRefreshTokens
DELETE FROM refresh_tokens
WHERE expires_at < $1
`

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredTokens, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	return t, err
}
