package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
)

func testTokenConfig() *TokenConfig {
	return &TokenConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "edupay-test",
		Audience:        "edupay-api",
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-123",
		Email: "prof@university.edu",
		Name:  "Ada Lovelace",
		Role:  domain.RoleProfessor,
	}
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := NewTokenService(testTokenConfig())
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	principal, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if principal.ID != user.ID {
		t.Errorf("principal.ID = %q, want %q", principal.ID, user.ID)
	}
	if principal.Email != user.Email {
		t.Errorf("principal.Email = %q, want %q", principal.Email, user.Email)
	}
	if principal.Role != domain.RoleProfessor {
		t.Errorf("principal.Role = %q, want %q", principal.Role, domain.RoleProfessor)
	}
}

func TestTokenService_VerifyAccessToken_Errors(t *testing.T) {
	cfg := testTokenConfig()
	svc := NewTokenService(cfg)
	user := testUser()

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService(&TokenConfig{
			AccessSecret:    "some-other-secret",
			RefreshSecret:   cfg.RefreshSecret,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			Issuer:          cfg.Issuer,
			Audience:        cfg.Audience,
		})
		token, err := other.IssueAccessToken(user)
		if err != nil {
			t.Fatalf("IssueAccessToken() error = %v", err)
		}
		if _, err := svc.VerifyAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccessToken() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService(&TokenConfig{
			AccessSecret:    cfg.AccessSecret,
			RefreshSecret:   cfg.RefreshSecret,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			Issuer:          "someone-else",
			Audience:        cfg.Audience,
		})
		token, err := other.IssueAccessToken(user)
		if err != nil {
			t.Fatalf("IssueAccessToken() error = %v", err)
		}
		if _, err := svc.VerifyAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccessToken() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		if _, err := svc.VerifyAccessToken("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccessToken() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		refresh, _, err := svc.IssueRefreshToken(user.ID)
		if err != nil {
			t.Fatalf("IssueRefreshToken() error = %v", err)
		}
		if _, err := svc.VerifyAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccessToken() error = %v, want ErrTokenInvalid", err)
		}
	})
}

func TestTokenService_Expiry(t *testing.T) {
	svc := NewTokenService(testTokenConfig())
	user := testUser()

	issued := time.Now()
	token, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	// Jump the clock past the access TTL
	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = svc.VerifyAccessToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyAccessToken() error = %v, want ErrTokenExpired", err)
	}
	if errors.Is(err, ErrTokenInvalid) {
		t.Error("expired token must not be reported as invalid")
	}
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	token, expiresAt, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 6*24*time.Hour {
		t.Errorf("expiresAt too soon: %v remaining", remaining)
	}

	userID, err := svc.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestTokenService_VerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	access, err := svc.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if _, err := svc.VerifyRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyRefreshToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenService_RefreshExpiry(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	issued := time.Now()
	token, _, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}

	svc.now = func() time.Time { return issued.Add(8 * 24 * time.Hour) }

	if _, err := svc.VerifyRefreshToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyRefreshToken() error = %v, want ErrTokenExpired", err)
	}
}
