package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/radityaputra/tautan/internal/container"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
	handlers "github.com/radityaputra/tautan/internal/interface/http"
	"github.com/radityaputra/tautan/internal/interface/middleware"
	"github.com/radityaputra/tautan/pkg/helpers"
)

// UserModule wires profile, follow-graph, and search routes. Everything
// here requires a resolved acting user.

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Users   repo.UserRepository
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, users repo.UserRepository) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/search/:query", m.Handler.Search)
		auth.GET("/connections", m.Handler.Connections)
		auth.PUT("/update", m.Handler.UpdateProfile)
		auth.POST("/avatar", m.Handler.UploadAvatar)
		auth.POST("/follow/:id", m.Handler.ToggleFollow)
		auth.GET("/:id", m.Handler.GetProfile)
	}
}
