package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/radityaputra/tautan/internal/application"
	"github.com/radityaputra/tautan/internal/interface/middleware"
	"github.com/radityaputra/tautan/pkg/response"
	"github.com/radityaputra/tautan/pkg/validation"
)

type UserHandler struct {
	Svc    *app.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	FullName  string  `json:"full_name" binding:"omitempty,max=50"`
	Bio       *string `json:"bio" binding:"omitempty,max=150"`
	AvatarURL string  `json:"avatar_url" binding:"omitempty,url"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	detail, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get profile failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch profile", nil)
		return
	}
	response.Success(c, http.StatusOK, detail, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, app.UpdateProfileInput{
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, app.ErrBioTooLong) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, u.Profile(), "profile updated", nil)
}

// UploadAvatar accepts a multipart "avatar" file and stores it in object
// storage; the profile's avatar URL is updated to the result.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to upload avatar", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

func (h *UserHandler) ToggleFollow(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	following, err := h.Svc.ToggleFollow(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSelfFollow):
			response.Error[any](c, http.StatusBadRequest, "you cannot follow yourself", nil)
		case errors.Is(err, app.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("toggle follow failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to toggle follow", nil)
		}
		return
	}
	msg := "user unfollowed successfully"
	if following {
		msg = "user followed successfully"
	}
	response.Success(c, http.StatusOK, gin.H{"following": following}, msg, nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	profiles, err := h.Svc.Search(c.Request.Context(), uid, c.Param("query"))
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to search users", nil)
		return
	}
	response.Success(c, http.StatusOK, profiles, "search results", nil)
}

func (h *UserHandler) Connections(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	followers, following, err := h.Svc.Connections(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("get connections failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch connections", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"followers": followers,
		"following": following,
	}, "connections", nil)
}
