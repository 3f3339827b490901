package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if valid, msg := req.ValidateEmail(); !valid {
		response.BadRequest(c, msg)
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.BadRequest(c, msg)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Error(c, http.StatusConflict, "USER_EXISTS", "An account with this email already exists")
			return
		}
		logger.Get().Error("register failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Registration failed")
		return
	}

	response.Created(c, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		var locked *service.AccountLockedError
		switch {
		case errors.As(err, &locked):
			response.RetryableError(c, http.StatusLocked, auth.CodeAccountLocked,
				"Account temporarily locked due to repeated failed logins", locked.RetryAfter)
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive):
			// Inactive accounts get the same answer as bad credentials so the
			// endpoint does not leak account state
			response.Unauthorized(c, "INVALID_CREDENTIALS", "Invalid email or password")
		default:
			logger.Get().Error("login failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		}
		return
	}

	response.Success(c, resp)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			response.Unauthorized(c, auth.CodeTokenExpired, "Refresh token has expired")
		case errors.Is(err, auth.ErrTokenInvalid):
			response.Unauthorized(c, auth.CodeInvalidToken, "Invalid refresh token")
		case errors.Is(err, service.ErrTokenNotFound):
			response.Unauthorized(c, "TOKEN_NOT_FOUND", "Refresh token has been revoked")
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrUserInactive):
			response.Unauthorized(c, "USER_NOT_FOUND", "Account no longer available")
		default:
			logger.Get().Error("refresh failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Token refresh failed")
		}
		return
	}

	response.Success(c, resp)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		logger.Get().Error("logout failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Logout failed")
		return
	}

	response.Success(c, gin.H{"message": "Logged out"})
}

// LogoutAll handles POST /api/v1/auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.Unauthorized(c, auth.CodeMissingToken, "Authentication required")
		return
	}

	if err := h.authService.LogoutAll(c.Request.Context(), principal.ID); err != nil {
		logger.Get().Error("logout-all failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Logout failed")
		return
	}

	response.Success(c, gin.H{"message": "All sessions revoked"})
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.Unauthorized(c, auth.CodeMissingToken, "Authentication required")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.BadRequest(c, msg)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), principal.ID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "INVALID_CREDENTIALS", "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "User not found")
		default:
			logger.Get().Error("change password failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Password change failed")
		}
		return
	}

	response.Success(c, gin.H{"message": "Password changed; all sessions revoked"})
}

// Professors handles GET /api/v1/professors (admin). The listing backs the
// screen where an admin picks a professor to batch sessions into a payment.
func (h *AuthHandler) Professors(c *gin.Context) {
	professors, err := h.authService.ListProfessors(c.Request.Context())
	if err != nil {
		logger.Get().Error("list professors failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list professors")
		return
	}

	out := make([]dto.UserResponse, 0, len(professors))
	for _, p := range professors {
		out = append(out, dto.NewUserResponse(p))
	}
	response.Success(c, out)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.Unauthorized(c, auth.CodeMissingToken, "Authentication required")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		logger.Get().Error("me failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}
