package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/repairtrack/backend/internal/dto"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/logging"
	"github.com/repairtrack/backend/internal/services"
	"github.com/sirupsen/logrus"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Username and password are required")
		return
	}

	session, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logging.WithFields(logrus.Fields{
				"username": req.Username,
				"ip":       c.ClientIP(),
			}).Info("Failed login attempt")
			apierrors.Unauthorized(c, "Invalid credentials")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// Refresh reissues a token with the same identity claims and a fresh
// permission set from the store.
func (h *AuthHandler) Refresh(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		apierrors.Unauthorized(c, "Missing Authorization header")
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		apierrors.Unauthorized(c, "Invalid Authorization format")
		return
	}

	session, err := h.authService.Refresh(parts[1])
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}
