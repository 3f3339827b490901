package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/u1krsh/EduPay/pkg/database"
	"github.com/u1krsh/EduPay/pkg/redis"
)

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	db    *database.PostgresDB
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler. The redis client may be nil
// when rate limiting runs in-process.
func NewHealthHandler(db *database.PostgresDB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "edupay",
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{"database": "connected"}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["database"] = "disconnected"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": checks,
			"error":  err.Error(),
		})
		return
	}

	if h.redis != nil {
		checks["redis"] = "connected"
		if err := h.redis.Ping(c.Request.Context()); err != nil {
			checks["redis"] = "disconnected"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"checks": checks,
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}
