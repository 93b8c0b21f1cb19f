package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/token"
)

// Context keys set by RequireAuth.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
)

// RequireAuth verifies the bearer token and stores the caller's identity in
// the request context. Verification is purely cryptographic; the store is
// not consulted here.
func RequireAuth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "Missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "Invalid Authorization format")
			c.Abort()
			return
		}

		identity, err := codec.Verify(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, identity.UserID)
		c.Set(ContextKeyUsername, identity.Username)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}

	userID, ok := value.(uint64)
	if !ok {
		return 0, false
	}
	return userID, true
}

// GetUsername retrieves the current username from context
func GetUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyUsername)
	if !exists {
		return "", false
	}

	username, ok := value.(string)
	return username, ok
}
