package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/edge-event-service/internal/handlers"
	"github.com/PratikDhanave/edge-event-service/internal/models"
	"github.com/PratikDhanave/edge-event-service/internal/requestid"
	"github.com/PratikDhanave/edge-event-service/internal/store"
)

// NewRouter wires operational endpoints and the event API.
// Operational: /health, /ready
// Events: POST and GET /api/event
func NewRouter(st store.Store, rules models.ValidationRules, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(AccessLog(logger))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "readiness check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterEventRoutes(r, st, rules, logger)
	handlers.RegisterQueryRoutes(r, st, logger)

	return r
}
