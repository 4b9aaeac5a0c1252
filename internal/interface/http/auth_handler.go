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

type AuthHandler struct {
	Svc    *app.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *app.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	FullName string `json:"full_name" binding:"required,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, app.ErrDuplicateUser) {
			response.Error[any](c, http.StatusBadRequest, "user already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to register", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"user":  u.Profile(),
		"token": token,
	}, "user registered", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to login", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":  u.Profile(),
		"token": token,
	}, "login successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.Me(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u.Profile(), "profile", nil)
}
