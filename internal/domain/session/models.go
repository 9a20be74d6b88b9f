package session

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrTokenRevoked       = errors.New("refresh token revoked")
	ErrTokenNotFound      = errors.New("refresh token not found")
)

// RefreshToken is the persisted record of an issued refresh token.
// The raw token never hits the database; only its SHA-256 hash does.
// Records are soft-deleted via the revoked flag to keep an audit trail.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}
