package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CtxRequestIDKey is where the request id lives in the Gin context;
	// the response envelope reads it from there.
	CtxRequestIDKey = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware tags every request with an id, reusing the caller's
// X-Request-ID when one is supplied so ids correlate across services. The
// id is echoed back in the response header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(CtxRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
