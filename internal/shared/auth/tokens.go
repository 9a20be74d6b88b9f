package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TypeAccess and TypeRefresh discriminate the two token kinds.
	// A token of one type is never accepted where the other is required.
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Token verification errors. ErrTokenExpired is an unauthorized-class
// failure like ErrTokenInvalid, kept separate so callers can report it.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the JWT claims carried by both token types.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// IssuerConfig configures a TokenIssuer. AccessSecret and RefreshSecret
// must be independent so a leaked access secret cannot forge refresh
// tokens, and vice versa.
type IssuerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenIssuer signs and verifies access and refresh tokens (HS256).
// Access tokens are stateless: verification is purely cryptographic and
// they cannot be revoked before expiry. Refresh tokens are additionally
// tracked server-side by the session store.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenIssuer creates a TokenIssuer from config.
func NewTokenIssuer(cfg IssuerConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// IssueAccess signs a short-lived access token for userID.
func (ti *TokenIssuer) IssueAccess(userID int64) (string, error) {
	return ti.sign(TypeAccess, userID, ti.accessSecret, ti.accessTTL)
}

// IssueRefresh signs a refresh token for userID and returns its expiry,
// which the caller persists alongside the token hash.
func (ti *TokenIssuer) IssueRefresh(userID int64) (string, time.Time, error) {
	expiresAt := time.Now().Add(ti.refreshTTL)
	token, err := ti.sign(TypeRefresh, userID, ti.refreshSecret, ti.refreshTTL)
	return token, expiresAt, err
}

func (ti *TokenIssuer) sign(tokenType string, userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns the user id.
func (ti *TokenIssuer) VerifyAccess(token string) (int64, error) {
	return ti.verify(token, TypeAccess, ti.accessSecret)
}

// VerifyRefresh validates a refresh token cryptographically and returns
// the user id. Persisted revocation state is checked separately by the
// session service; the record is authoritative over the embedded expiry.
func (ti *TokenIssuer) VerifyRefresh(token string) (int64, error) {
	return ti.verify(token, TypeRefresh, ti.refreshSecret)
}

func (ti *TokenIssuer) verify(token, wantType string, secret []byte) (int64, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}

	if claims.TokenType != wantType || claims.Subject == "" {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}

	return userID, nil
}

// HashToken returns the hex SHA-256 of a token string. Refresh tokens are
// stored by hash so a database leak does not expose usable credentials.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
