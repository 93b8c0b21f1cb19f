package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/permissions"
	"github.com/repairtrack/backend/internal/repository"
	"gorm.io/gorm"
)

// RequirePermission gates a route on the caller's capability set. The route
// is granted when the stored set intersects the required set (ANY-of).
//
// The admin identity short-circuits every check. User management is the one
// hard-restricted resource: it cannot be delegated through the permission
// set, so non-admins are refused before the store is consulted.
func RequirePermission(userRepo repository.UserRepository, required ...permissions.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if permissions.IsAdminID(userID) {
			c.Next()
			return
		}

		if len(required) == 1 && required[0] == permissions.PermUsers {
			apierrors.Forbidden(c, "Only the admin can manage users")
			c.Abort()
			return
		}

		// Always a fresh read: token claims must not cache permissions, so
		// a revocation takes effect on the next request.
		set, err := userRepo.GetPermissions(userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		if !set.ContainsAny(required...) {
			apierrors.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
