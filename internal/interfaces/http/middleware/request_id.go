// Package middleware provides HTTP middleware for the finance service.
package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// RequestID attaches a request ID to every request, reusing the
// caller's X-Request-ID header when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(handler.RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(bytes)
}
