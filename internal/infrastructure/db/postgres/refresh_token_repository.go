package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
)

// RefreshTokenRepository implements ports.RefreshTokenRepository over DBTX.
type RefreshTokenRepository struct {
	db  DBTX
	now func() time.Time
}

func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db, now: time.Now}
}

const refreshTokenColumns = `id, user_id, token, expires_at, is_revoked, created_at`

func (r *RefreshTokenRepository) Create(ctx context.Context, rt *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (` + refreshTokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		rt.ID, rt.UserID, rt.Token, rt.ExpiresAt, rt.IsRevoked, rt.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Find(ctx context.Context, token string, userID uuid.UUID) (*domain.RefreshToken, error) {
	query := `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE token = $1 AND user_id = $2
		FOR SHARE
	`
	return scanRefreshToken(r.db.QueryRowContext(ctx, query, token, userID))
}

func (r *RefreshTokenRepository) FindActive(ctx context.Context, token string, userID uuid.UUID) (*domain.RefreshToken, error) {
	query := `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE token = $1 AND user_id = $2 AND is_revoked = false AND expires_at > $3
		FOR SHARE
	`
	return scanRefreshToken(r.db.QueryRowContext(ctx, query, token, userID, r.now().UTC()))
}

// Revoke flips is_revoked in a single conditional update. Already revoked or
// missing rows report false.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = true
		WHERE token = $1 AND user_id = $2 AND is_revoked = false
	`
	res, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return n > 0, nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return n, nil
}

func scanRefreshToken(row *sql.Row) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	if err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.IsRevoked, &rt.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}
