package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			fail(c, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, service.ErrPasswordTooShort):
			fail(c, http.StatusBadRequest, "password is too short")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp.Success = true
	resp.Message = "account created"
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrAccountBlocked):
			fail(c, http.StatusForbidden, "account is blocked")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp.Success = true
	resp.Message = "logged in"
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	user, err := h.userService.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserResponse(user),
	})
}
