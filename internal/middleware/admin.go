package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftlab/liftlab-backend/internal/logger"
)

// AdminMiddleware guards the ops-only surface with a shared key.
type AdminMiddleware struct {
	log      *logger.Logger
	adminKey string
}

func NewAdminMiddleware(log *logger.Logger, adminKey string) *AdminMiddleware {
	return &AdminMiddleware{
		log:      log.With("middleware", "AdminMiddleware"),
		adminKey: adminKey,
	}
}

func (am *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if am.adminKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin surface disabled"})
			return
		}
		provided := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(am.adminKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
