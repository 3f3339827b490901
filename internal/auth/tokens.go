package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/u1krsh/EduPay/internal/domain"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has passed. Clients should attempt a refresh.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure: bad
	// signature, wrong issuer/audience, malformed token, wrong token type.
	ErrTokenInvalid = errors.New("token invalid")
)

// refreshTokenType is the typ claim that marks a refresh token. Access
// tokens never carry it, so the two cannot be swapped even if the secrets
// were misconfigured to match.
const refreshTokenType = "refresh"

// TokenConfig holds signing settings for the token service
type TokenConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	Audience        string
}

// AccessClaims are the claims embedded in an access token. Subject holds
// the user ID.
type AccessClaims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims embedded in a refresh token
type RefreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access and refresh tokens. Access tokens
// are stateless; refresh tokens are additionally persisted by the caller so
// they can be revoked. Verification here is signature+expiry only; the
// revocation check against the store is the caller's responsibility.
type TokenService struct {
	config *TokenConfig
	now    func() time.Time
}

// NewTokenService creates a new TokenService
func NewTokenService(cfg *TokenConfig) *TokenService {
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		config: cfg,
		now:    time.Now,
	}
}

// AccessTokenTTL returns the configured access token lifetime
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenTTL
}

// IssueAccessToken signs a short-lived access token carrying the user's
// identity and role.
func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessSecret))
}

// IssueRefreshToken signs a long-lived refresh token for the user and
// returns it together with its expiry. The caller must persist the token
// with that expiry before handing it to the client.
func (s *TokenService) IssueRefreshToken(userID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.RefreshTokenTTL)
	claims := RefreshClaims{
		TokenType: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken checks signature, expiry, issuer and audience, and
// returns the principal the token was issued for. Expiry is reported as
// ErrTokenExpired so callers can tell clients to refresh instead of
// re-login.
func (s *TokenService) VerifyAccessToken(tokenString string) (*domain.Principal, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.config.AccessSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &domain.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

// VerifyRefreshToken checks signature and expiry of a refresh token and
// returns the user ID it was issued for. It deliberately does not consult
// the persistence store: a verified token may still have been revoked, and
// that check belongs to the refresh flow.
func (s *TokenService) VerifyRefreshToken(tokenString string) (string, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.config.RefreshSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.TokenType != refreshTokenType {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
