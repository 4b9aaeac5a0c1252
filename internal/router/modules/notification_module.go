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

// NotificationModule wires the acting user's inbox routes.

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	JWT     *helpers.JWTManager
	Users   repo.UserRepository
}

func NewNotificationModule(h *handlers.NotificationHandler, jwt *helpers.JWTManager, users repo.UserRepository) *NotificationModule {
	return &NotificationModule{Handler: h, JWT: jwt, Users: users}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/notifications")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.List)
		auth.DELETE("", m.Handler.Clear)
	}
}
