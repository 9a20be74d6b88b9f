package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(IssuerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestIssueAndVerifyAccess(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccess(123)
	if err != nil {
		t.Fatalf("IssueAccess() failed: %v", err)
	}
	if token == "" {
		t.Fatal("IssueAccess() returned empty token")
	}

	userID, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess() failed: %v", err)
	}
	if userID != 123 {
		t.Errorf("VerifyAccess() got user %d, want 123", userID)
	}
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	issuer := newTestIssuer()

	token, expiresAt, err := issuer.IssueRefresh(456)
	if err != nil {
		t.Fatalf("IssueRefresh() failed: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("IssueRefresh() expiry %v from now, want about 1h", remaining)
	}

	userID, err := issuer.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh() failed: %v", err)
	}
	if userID != 456 {
		t.Errorf("VerifyRefresh() got user %d, want 456", userID)
	}
}

func TestVerify_TypeCrossUseRejected(t *testing.T) {
	issuer := newTestIssuer()

	accessToken, err := issuer.IssueAccess(1)
	if err != nil {
		t.Fatalf("IssueAccess() failed: %v", err)
	}
	refreshToken, _, err := issuer.IssueRefresh(1)
	if err != nil {
		t.Fatalf("IssueRefresh() failed: %v", err)
	}

	if _, err := issuer.VerifyRefresh(accessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyRefresh(access token) error = %v, want ErrTokenInvalid", err)
	}
	if _, err := issuer.VerifyAccess(refreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyAccess(refresh token) error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newTestIssuer()
	other := NewTokenIssuer(IssuerConfig{
		AccessSecret:  "different-access-secret",
		RefreshSecret: "different-refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})

	token, err := issuer.IssueAccess(1)
	if err != nil {
		t.Fatalf("IssueAccess() failed: %v", err)
	}

	if _, err := other.VerifyAccess(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyAccess() with wrong secret error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccess(1)
	if err != nil {
		t.Fatalf("IssueAccess() failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".invalid-signature"

	if _, err := issuer.VerifyAccess(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyAccess() with tampered signature error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer(IssuerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     -time.Minute,
		RefreshTTL:    -time.Minute,
	})

	accessToken, err := issuer.IssueAccess(1)
	if err != nil {
		t.Fatalf("IssueAccess() failed: %v", err)
	}
	refreshToken, _, err := issuer.IssueRefresh(1)
	if err != nil {
		t.Fatalf("IssueRefresh() failed: %v", err)
	}

	if _, err := issuer.VerifyAccess(accessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyAccess() on expired token error = %v, want ErrTokenExpired", err)
	}
	if _, err := issuer.VerifyRefresh(refreshToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyRefresh() on expired token error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := newTestIssuer()

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := issuer.VerifyAccess(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccess(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("token-one")
	h2 := HashToken("token-one")
	h3 := HashToken("token-two")

	if h1 != h2 {
		t.Error("HashToken() not deterministic for same input")
	}
	if h1 == h3 {
		t.Error("HashToken() collided for different inputs")
	}
	if len(h1) != 64 {
		t.Errorf("HashToken() length = %d, want 64 hex chars", len(h1))
	}
}
