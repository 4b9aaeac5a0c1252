package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/radityaputra/tautan/internal/application"
	"github.com/radityaputra/tautan/internal/interface/middleware"
	"github.com/radityaputra/tautan/pkg/response"
)

type PostHandler struct {
	Svc    *app.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *app.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type commentRequest struct {
	Text string `json:"text"`
}

// Create accepts either a JSON body {"text": ...} or a multipart form with
// a "text" field and an optional "image" file.
func (h *PostHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var text string
	var image *app.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		text = c.PostForm("text")
		if file, header, err := c.Request.FormFile("image"); err == nil {
			defer func() { _ = file.Close() }()
			image = &app.ImageUpload{
				Reader:      file,
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
			}
		}
	} else {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
			return
		}
		text = req.Text
	}

	p, err := h.Svc.Create(c.Request.Context(), uid, text, image)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyPost), errors.Is(err, app.ErrTextTooLong):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).Error("create post failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to create post", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":         p.ID,
		"user_id":    p.UserID,
		"text":       p.Text,
		"image_url":  p.ImageURL,
		"created_at": p.CreatedAt,
	}, "post created", nil)
}

func (h *PostHandler) GetAll(c *gin.Context) {
	views, err := h.Svc.GetAll(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list posts failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch posts", nil)
		return
	}
	response.Success(c, http.StatusOK, views, "posts", nil)
}

func (h *PostHandler) GetUserPosts(c *gin.Context) {
	views, err := h.Svc.GetUserPosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Error("list user posts failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch posts", nil)
		return
	}
	response.Success(c, http.StatusOK, views, "posts", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPostNotFound):
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
		case errors.Is(err, app.ErrNotPostOwner):
			response.Error[any](c, http.StatusForbidden, "not authorized to delete this post", nil)
		default:
			h.Logger.WithError(err).Error("delete post failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to delete post", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "post deleted", nil)
}

// ToggleLike responds with the resulting like id list so clients can
// reconcile optimistic updates against truth.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	likes, err := h.Svc.ToggleLike(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrPostNotFound) {
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
			return
		}
		h.Logger.WithError(err).Error("toggle like failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to toggle like", nil)
		return
	}
	response.Success(c, http.StatusOK, likes, "likes", nil)
}

// Comment responds with the full resulting comment list.
func (h *PostHandler) Comment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	comments, err := h.Svc.AddComment(c.Request.Context(), uid, c.Param("id"), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyComment):
			response.Error[any](c, http.StatusBadRequest, "text is required", nil)
		case errors.Is(err, app.ErrPostNotFound):
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
		default:
			h.Logger.WithError(err).Error("add comment failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to add comment", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", nil)
}
