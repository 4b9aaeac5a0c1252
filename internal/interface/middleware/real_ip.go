package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey is where the resolved client IP lives in the Gin context.
const CtxRealIPKey = "real_ip"

// RealIP resolves the client IP once per request so rate-limit keys and
// the private-IP bypass agree on it. Cloudflare's header wins, then the
// left-most X-Forwarded-For entry, then Gin's own resolution.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveClientIP(c))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context) string {
	if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
		if ip := net.ParseIP(cf); ip != nil {
			return ip.String()
		}
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
