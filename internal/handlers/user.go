package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/services"
)

// UserHandler coordinates user management handlers. The whole surface is
// restricted to the admin identity by the permission middleware.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser creates a staff account with a permission set.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username    string   `json:"username"`
		Password    string   `json:"password"`
		Permissions []string `json:"permissions"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Password, req.Permissions)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers lists all users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser returns one user.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update of username, password, permissions.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Username    *string   `json:"username"`
		Password    *string   `json:"password"`
		Permissions *[]string `json:"permissions"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword replaces a user's password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type ChangePasswordRequest struct {
		Password string `json:"password"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		apierrors.BadRequest(c, "Password is required")
		return
	}

	if err := h.userService.ChangePassword(id, req.Password); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username is already taken")
	case errors.Is(err, services.ErrCredentialsRequired):
		apierrors.BadRequest(c, "Username and password are required")
	case errors.Is(err, services.ErrUnknownPermission):
		apierrors.BadRequest(c, "Unknown permission tag")
	default:
		apierrors.InternalError(c, "")
	}
}
