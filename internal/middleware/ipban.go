package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/logging"
	"github.com/repairtrack/backend/internal/repository"
	"github.com/sirupsen/logrus"
)

const banMessage = "Your IP is temporarily banned due to multiple failed login attempts."

// IPBanGate blocks requests from currently banned addresses. It is applied
// ahead of the login endpoint only. A failing ban lookup must not take the
// login path down with it, so the gate fails open and logs the incident.
func IPBanGate(banRepo repository.BanRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		ban, err := banRepo.FindByIP(ip)
		if err != nil {
			logging.WithFields(logrus.Fields{
				"ip":    ip,
				"error": err.Error(),
			}).Warn("IP ban lookup failed, allowing request")
			c.Next()
			return
		}

		if ban != nil && ban.Active(time.Now()) {
			apierrors.Forbidden(c, banMessage)
			c.Abort()
			return
		}

		c.Next()
	}
}
