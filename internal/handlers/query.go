package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/edge-event-service/internal/models"
	"github.com/PratikDhanave/edge-event-service/internal/requestid"
	"github.com/PratikDhanave/edge-event-service/internal/store"
)

// RegisterQueryRoutes registers the read-path endpoint.
//
// GET /api/event?start=...&end=...&event_kind=...&event_type=...
//   - Every filter is optional; present filters combine with AND
//   - start and end are inclusive ISO-8601 bounds
//   - Results are newest first and never paginated
func RegisterQueryRoutes(r gin.IRoutes, st store.Store, logger *slog.Logger) {
	r.GET(EventPath, func(c *gin.Context) {
		echo := models.FilterEcho{
			Start:     queryParam(c, "start"),
			End:       queryParam(c, "end"),
			EventKind: queryParam(c, "event_kind"),
			EventType: queryParam(c, "event_type"),
		}

		filter := models.EventFilter{
			EventKind: echo.EventKind,
			EventType: echo.EventType,
		}

		if echo.Start != nil {
			start, err := models.ParseTimestamp(*echo.Start)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start format. Use ISO 8601."})
				return
			}
			filter.Start = &start
		}
		if echo.End != nil {
			end, err := models.ParseTimestamp(*echo.End)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end format. Use ISO 8601."})
				return
			}
			filter.End = &end
		}

		// Equal bounds are a valid single-instant window.
		if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be <= end."})
			return
		}

		events, err := st.ListEvents(c.Request.Context(), filter)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "getting events failed",
				"err", err,
				"request_id", requestid.Get(c),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event query failed"})
			return
		}
		if events == nil {
			events = []models.Event{}
		}

		c.JSON(http.StatusOK, models.EventQueryResponse{
			Message: "Successfully got events.",
			Count:   len(events),
			Filters: echo,
			Events:  events,
		})
	})
}

// queryParam returns the query value for key, or nil when it is absent or empty.
func queryParam(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}
