package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	repo "github.com/radityaputra/tautan/internal/domain/repository"
	"github.com/radityaputra/tautan/pkg/helpers"
	"github.com/radityaputra/tautan/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth resolves the acting user from the Authorization: Bearer header.
// The token subject must still reference an existing user; a valid
// signature alone is not enough. On success the user id is set in the Gin
// context for downstream handlers.
func Auth(jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", err.Error())
			c.Abort()
			return
		}
		if _, err := users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			response.Error[any](c, http.StatusUnauthorized, "user no longer exists", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
