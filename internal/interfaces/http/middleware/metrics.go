package middleware

import (
	"strconv"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latencies. The route template is
// used as the path label so IDs do not explode cardinality.
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
