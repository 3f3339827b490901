package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/response"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notifications.List(c.Request.Context(), principal.ID, unreadOnly, 50)
	if err != nil {
		logger.Get().Error("list notifications failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}

	response.Success(c, dto.NewNotificationListResponse(notifications))
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	count, err := h.notifications.UnreadCount(c.Request.Context(), principal.ID)
	if err != nil {
		logger.Get().Error("unread count failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count notifications")
		return
	}

	response.Success(c, gin.H{"count": count})
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	if err := h.notifications.MarkRead(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		logger.Get().Error("mark read failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification")
		return
	}

	response.Success(c, gin.H{"message": "Marked read"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	if err := h.notifications.MarkAllRead(c.Request.Context(), principal.ID); err != nil {
		logger.Get().Error("mark all read failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications")
		return
	}

	response.Success(c, gin.H{"message": "All marked read"})
}

// Stream handles GET /api/v1/notifications/stream as server-sent events.
// The connection stays open until the client disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	ch, cancel := h.notifications.Subscribe(principal.ID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(dto.NewNotificationResponse(n))
			if err != nil {
				return true
			}
			c.SSEvent("notification", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
