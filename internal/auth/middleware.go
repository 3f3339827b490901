package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/response"
)

// Error codes emitted by the access control middleware
const (
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeForbidden         = "FORBIDDEN"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeAccountLocked     = "ACCOUNT_LOCKED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// principalKey is the gin context key the authenticated principal lives under
const principalKey = "auth_principal"

// PrincipalFrom returns the authenticated principal stored by Authenticate.
// ok is false on routes that did not pass through the middleware.
func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok
}

// bearerToken extracts the token from the Authorization header. The scheme
// comparison is case-insensitive per RFC 7235.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate verifies the bearer token and stores the principal in the
// request context. A missing header, a bad token and an expired token each
// get their own error code so clients know whether to refresh or re-login.
func Authenticate(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required")
			return
		}

		principal, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				response.AbortError(c, http.StatusUnauthorized, CodeTokenExpired, "Access token has expired")
				return
			}
			response.AbortError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid authentication token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// OptionalAuthenticate resolves a principal when a valid bearer token is
// present but never rejects the request. Handlers behind it serve both
// anonymous and authenticated callers.
func OptionalAuthenticate(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if principal, err := tokens.VerifyAccessToken(tokenString); err == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// Authorize allows the request only when the authenticated principal holds
// one of the given roles. It must run after Authenticate.
func Authorize(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required")
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.AbortError(c, http.StatusForbidden, CodeForbidden, "Insufficient permissions")
	}
}

// RateLimit enforces the limiter's fixed-window budget per client IP. A
// store failure rejects the request rather than waving it through.
func RateLimit(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Check(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Get().Error("rate limit check failed",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err))
			response.AbortError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error")
			return
		}

		if !decision.Allowed {
			response.RetryableError(c, http.StatusTooManyRequests, CodeRateLimitExceeded,
				"Too many requests. Please try again later", decision.RetryAfter)
			return
		}

		c.Next()
	}
}
