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

// AuthModule wires registration, login, and the acting-user probe.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Users   repo.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, users repo.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	{
		auth.GET("/auth/me", m.Handler.Me)
	}
}
