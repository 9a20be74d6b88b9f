package session

import (
	"context"
	"time"
)

// Repository defines the interface for refresh-token persistence.
type Repository interface {
	// Create stores a new refresh token record.
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// Get retrieves a token record by hash. Returns ErrTokenNotFound when
	// no record exists.
	Get(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// Revoke flips the revoked flag. Revoking an unknown or
	// already-revoked token is a no-op, not an error.
	Revoke(ctx context.Context, tokenHash string) error

	// Rotate atomically revokes oldHash and stores newHash in one
	// transaction. Returns ErrTokenRevoked when oldHash was already
	// revoked, so a concurrent rotation of the same token cannot succeed
	// twice.
	Rotate(ctx context.Context, oldHash string, userID int64, newHash string, expiresAt time.Time) error

	// RevokeExpired flags all live tokens past their expiry as revoked
	// and reports how many were flagged. Rows are never deleted.
	RevokeExpired(ctx context.Context) (int64, error)
}
