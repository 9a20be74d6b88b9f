package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"centavo/internal/domain/session"
)

// RefreshTokenRepository implements the session.Repository interface for
// PostgreSQL. Tokens are never deleted: revocation flips a flag so the
// table doubles as an audit trail.
type RefreshTokenRepository struct {
	db *DB
}

// NewRefreshTokenRepository creates a new PostgreSQL refresh token repository.
func NewRefreshTokenRepository(db *DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create stores a new refresh token record.
func (r *RefreshTokenRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, tokenHash, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Get retrieves a token record by hash.
func (r *RefreshTokenRepository) Get(ctx context.Context, tokenHash string) (*session.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	var t session.RefreshToken
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, session.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &t, nil
}

// Revoke flips the revoked flag. Unknown or already-revoked hashes
// affect zero rows, which is deliberately not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token_hash = $1 AND NOT revoked`

	if _, err := r.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Rotate revokes oldHash and inserts newHash in one transaction. The
// conditional update guarantees that of two concurrent rotations of the
// same token, exactly one wins: the loser observes zero affected rows
// and gets session.ErrTokenRevoked.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldHash string, userID int64, newHash string, expiresAt time.Time) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE refresh_tokens SET revoked = TRUE WHERE token_hash = $1 AND NOT revoked`,
			oldHash,
		)
		if err != nil {
			return fmt.Errorf("failed to revoke old refresh token: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rotation result: %w", err)
		}
		if affected == 0 {
			return session.ErrTokenRevoked
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO refresh_tokens (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
			newHash, userID, expiresAt,
		); err != nil {
			return fmt.Errorf("failed to store rotated refresh token: %w", err)
		}

		return nil
	})
}

// RevokeExpired flags all live tokens past their expiry as revoked.
func (r *RefreshTokenRepository) RevokeExpired(ctx context.Context) (int64, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE NOT revoked AND expires_at < now()`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke expired tokens: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count revoked tokens: %w", err)
	}
	return affected, nil
}
