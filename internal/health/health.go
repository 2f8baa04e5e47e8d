package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck is implemented by every external dependency the service
// cannot run without (object store, notification queue).
type ReadinessCheck interface {
	IsReady(ctx context.Context) error
	Name() string
}

const checkTimeout = 2 * time.Second

type HealthHandler struct {
	checks []ReadinessCheck
}

func NewHealthHandler(checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		err := check.IsReady(ctx)
		cancel()

		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"check":  check.Name(),
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func RegisterHealthRoutes(h *HealthHandler, r *gin.Engine) {
	g := r.Group("/health")

	g.GET("/live", h.Live)
	g.GET("/ready", h.Ready)
}
