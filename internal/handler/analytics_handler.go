package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/response"
)

// AnalyticsHandler handles reporting HTTP requests
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	activity  *service.ActivityService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics *service.AnalyticsService, activity *service.ActivityService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, activity: activity}
}

// Earnings handles GET /api/v1/analytics/earnings, the professor's own
// monthly earnings.
func (h *AnalyticsHandler) Earnings(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	earnings, err := h.analytics.ProfessorEarnings(c.Request.Context(), principal.ID, months)
	if err != nil {
		logger.Get().Error("earnings failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load earnings")
		return
	}

	response.Success(c, earnings)
}

// Overview handles GET /api/v1/analytics/overview (admin)
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	statusTotals, professorTotals, err := h.analytics.AdminOverview(c.Request.Context())
	if err != nil {
		logger.Get().Error("overview failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load overview")
		return
	}

	response.Success(c, gin.H{
		"by_status":    statusTotals,
		"by_professor": professorTotals,
	})
}

// Activity handles GET /api/v1/analytics/activity (admin)
func (h *AnalyticsHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.activity.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.Get().Error("activity list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load activity")
		return
	}

	response.Success(c, entries)
}
