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

// PostModule wires the post lifecycle and engagement routes.

type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
	Users   repo.UserRepository
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager, users repo.UserRepository) *PostModule {
	return &PostModule{Handler: h, JWT: jwt, Users: users}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/posts")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/create", m.Handler.Create)
		auth.GET("/all", m.Handler.GetAll)
		auth.GET("/user/:id", m.Handler.GetUserPosts)
		auth.POST("/like/:id", m.Handler.ToggleLike)
		auth.POST("/comment/:id", m.Handler.Comment)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
