package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/radityaputra/tautan/internal/application"
	"github.com/radityaputra/tautan/internal/interface/middleware"
	"github.com/radityaputra/tautan/pkg/response"
)

type NotificationHandler struct {
	Svc    *app.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *app.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// List returns the acting user's inbox, newest first, marking everything
// read as a side effect.
func (h *NotificationHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	views, err := h.Svc.List(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list notifications failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch notifications", nil)
		return
	}
	response.Success(c, http.StatusOK, views, "notifications", nil)
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Clear(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).Error("clear notifications failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete notifications", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"cleared": true}, "notifications deleted", nil)
}
