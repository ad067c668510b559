package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/edge-event-service/internal/models"
	"github.com/PratikDhanave/edge-event-service/internal/requestid"
	"github.com/PratikDhanave/edge-event-service/internal/store"
)

// EventPath is where edge devices post and read events.
const EventPath = "/api/event"

// RegisterEventRoutes registers the ingestion-path endpoint.
//
// POST /api/event
//   - Validates the payload before touching the store
//   - Durable: returns 201 only after the row is written
//   - Store failures are logged and reported as a generic 500
func RegisterEventRoutes(r gin.IRoutes, st store.Store, rules models.ValidationRules, logger *slog.Logger) {
	r.POST(EventPath, func(c *gin.Context) {
		var req models.EventIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		// Validate only returns *models.ValidationError, whose text is client-safe.
		ev, err := req.Validate(rules)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := st.InsertEvent(c.Request.Context(), ev)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "posting event failed",
				"err", err,
				"event_type", ev.EventType,
				"jetson_id", ev.JetsonID,
				"camera_id", ev.CameraID,
				"request_id", requestid.Get(c),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event insert failed"})
			return
		}

		c.JSON(http.StatusCreated, models.EventIngestResponse{
			Message: fmt.Sprintf("%s event successfully inserted.", ev.EventType),
			ID:      id,
		})
	})
}
