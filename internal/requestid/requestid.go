package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

// ctxKey is the Gin context key used to store the request ID.
const ctxKey = "request_id"

// maxLen bounds a caller-supplied ID so it cannot bloat log lines.
const maxLen = 128

// Middleware tags every request with an ID. A well-formed X-Request-ID from
// the caller is kept so edge-device logs can be correlated; otherwise a UUID
// is generated. The ID is echoed in the response header.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if id == "" || len(id) > maxLen {
			id = uuid.NewString()
		}
		c.Set(ctxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// Get returns the request ID from the request context.
func Get(c *gin.Context) string {
	v, _ := c.Get(ctxKey)
	s, _ := v.(string)
	return s
}
