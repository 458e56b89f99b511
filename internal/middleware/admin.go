package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miniapptrack/attribution/pkg/response"
)

// HeaderAdminSecret is the header gating key-management endpoints
const HeaderAdminSecret = "X-Admin-Secret"

// AdminSecret gates the admin surface behind a shared secret. An empty
// configured secret disables the surface entirely with a 500 rather than
// letting every request through.
func AdminSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.Error(response.ErrCodeInternalError, "Admin access is not configured"))
			return
		}

		presented := c.GetHeader(HeaderAdminSecret)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error(response.ErrCodeUnauthorized, "Invalid admin secret"))
			return
		}

		c.Next()
	}
}
