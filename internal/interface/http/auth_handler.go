package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
	"github.com/oksasatya/go-ecommerce-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
	View   Presenter
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, view Presenter) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, View: view}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,strongpwd"`
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Phone    string `json:"phone" binding:"required,ngphone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type authResponse struct {
	User   userResponse  `json:"user"`
	Tokens tokenResponse `json:"tokens"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    validation.NormalizePhone(req.Phone),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	helpers.LogInfo(h.Logger, "user registered", logrus.Fields{"user_id": u.ID, "request_id": c.GetString("request_id")})
	response.Success(c, http.StatusCreated, authResponse{User: h.View.user(*u), Tokens: h.View.tokens(pair, h.Svc.JWT.Clock())}, "registration successful", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, authResponse{User: h.View.user(*u), Tokens: h.View.tokens(pair, h.Svc.JWT.Clock())}, "login successful", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.tokens(pair, h.Svc.JWT.Clock()), "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}
