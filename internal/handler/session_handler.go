package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/response"
)

// SessionHandler handles teaching session HTTP requests
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// sessionError maps service errors onto HTTP responses
func sessionError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, "Session not found")
	case errors.Is(err, service.ErrNotSessionOwner):
		response.Forbidden(c, "You may only access your own sessions")
	case errors.Is(err, service.ErrSessionNotPending):
		response.Error(c, http.StatusConflict, "SESSION_NOT_PENDING", "Only pending sessions can be modified")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Session cannot change to that status")
	case errors.Is(err, service.ErrProfessorWithoutRate):
		response.BadRequest(c, "Your profile has no hourly rate configured")
	default:
		logger.Get().Error(operation+" failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if _, ok := req.ParseDate(); !ok {
		response.BadRequest(c, "Date must be YYYY-MM-DD")
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		sessionError(c, err, "create session")
		return
	}

	response.Created(c, dto.NewSessionResponse(session))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	var query dto.SessionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if !query.ValidMonth() {
		response.BadRequest(c, "Month must be YYYY-MM")
		return
	}

	sessions, total, err := h.sessionService.List(c.Request.Context(), principal, &query)
	if err != nil {
		sessionError(c, err, "list sessions")
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Success: true,
		Data:    dto.NewSessionListResponse(sessions),
		Meta:    dto.ListMeta{Page: query.Page, PageSize: query.PageSize, Total: total},
	})
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	session, err := h.sessionService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		sessionError(c, err, "get session")
		return
	}

	response.Success(c, dto.NewSessionResponse(session))
}

// Update handles PUT /api/v1/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if _, ok := req.ParseDate(); !ok {
		response.BadRequest(c, "Date must be YYYY-MM-DD")
		return
	}

	session, err := h.sessionService.Update(c.Request.Context(), principal.ID, c.Param("id"), &req)
	if err != nil {
		sessionError(c, err, "update session")
		return
	}

	response.Success(c, dto.NewSessionResponse(session))
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	if err := h.sessionService.Delete(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		sessionError(c, err, "delete session")
		return
	}

	response.Success(c, gin.H{"message": "Session deleted"})
}

// Approve handles POST /api/v1/sessions/:id/approve (admin)
func (h *SessionHandler) Approve(c *gin.Context) {
	h.review(c, domain.SessionApproved)
}

// Reject handles POST /api/v1/sessions/:id/reject (admin)
func (h *SessionHandler) Reject(c *gin.Context) {
	h.review(c, domain.SessionRejected)
}

func (h *SessionHandler) review(c *gin.Context, to domain.SessionStatus) {
	principal, _ := auth.PrincipalFrom(c)

	// The review note is optional, so an empty body is fine
	var req dto.ReviewSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	var (
		session *domain.TeachingSession
		err     error
	)
	if to == domain.SessionApproved {
		session, err = h.sessionService.Approve(c.Request.Context(), principal.ID, c.Param("id"), req.Note)
	} else {
		session, err = h.sessionService.Reject(c.Request.Context(), principal.ID, c.Param("id"), req.Note)
	}
	if err != nil {
		sessionError(c, err, "review session")
		return
	}

	response.Success(c, dto.NewSessionResponse(session))
}
