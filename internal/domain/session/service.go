package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"centavo/internal/domain/user"
	"centavo/internal/shared/auth"
)

// Service implements registration, login and the refresh-token lifecycle.
type Service struct {
	users  user.Repository
	tokens Repository
	hasher *auth.Hasher
	issuer *auth.TokenIssuer
}

// NewService creates a new session service.
func NewService(users user.Repository, tokens Repository, hasher *auth.Hasher, issuer *auth.TokenIssuer) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		issuer: issuer,
	}
}

// Register creates a new user. Returns user.ErrEmailTaken when the email
// is already registered.
func (s *Service) Register(ctx context.Context, email, password, name string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, user.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique constraint is the backstop against a concurrent register
	// with the same email; the repository maps it to ErrEmailTaken.
	return s.users.Create(ctx, user.CreateParams{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
}

// Login verifies credentials and issues a fresh token pair. Wrong email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		// Malformed stored hash is an internal failure, not a bad password.
		return nil, fmt.Errorf("password verification failed for user %d: %w", u.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		log.Printf("Failed to update last login for user %d: %v", u.ID, err)
	}

	return s.issuePair(ctx, u.ID)
}

// Refresh rotates a refresh token: the old token is revoked and a new
// pair is issued atomically. A rotated token can never rotate again.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	oldHash := auth.HashToken(refreshToken)

	// The persisted record is authoritative for both revocation and
	// identity: a revoked token or a record naming a different user
	// fails here even while the signature is still valid.
	record, err := s.tokens.Get(ctx, oldHash)
	if err != nil {
		return nil, auth.ErrTokenInvalid
	}
	if record.UserID != userID {
		return nil, auth.ErrTokenInvalid
	}
	if record.Revoked {
		return nil, ErrTokenRevoked
	}

	newToken, expiresAt, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Rotate(ctx, oldHash, userID, auth.HashToken(newToken), expiresAt); err != nil {
		return nil, err
	}

	accessToken, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		TokenType:    "bearer",
	}, nil
}

// Logout revokes a refresh token. Always succeeds from the caller's
// perspective: unknown, invalid or already-revoked tokens are no-ops.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	// Expired tokens still get revoked for the audit trail; only tokens
	// that fail signature or type checks are ignored outright.
	if _, err := s.issuer.VerifyRefresh(refreshToken); errors.Is(err, auth.ErrTokenInvalid) {
		log.Printf("Logout with invalid refresh token ignored")
		return
	}

	if err := s.tokens.Revoke(context.WithoutCancel(ctx), auth.HashToken(refreshToken)); err != nil {
		log.Printf("Failed to revoke refresh token: %v", err)
	}
}

// PurgeExpired flags expired live refresh tokens as revoked. Used by the
// scheduler's hygiene job.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.RevokeExpired(ctx)
}

func (s *Service) issuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, userID, auth.HashToken(refreshToken), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
