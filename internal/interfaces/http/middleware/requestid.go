// Package middleware holds the gin middleware shared by all HTTP routes:
// request ID propagation, structured request logging, panic recovery, and
// per-route Prometheus metrics.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID is the header carrying the request correlation ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin context key the ID is stored under.
	ContextKeyRequestID = "request_id"
)

// RequestID propagates an incoming X-Request-ID or generates one, storing
// it in the gin context and echoing it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the correlation ID stored by RequestID, empty when
// the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
