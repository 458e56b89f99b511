package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/service"
	"github.com/miniapptrack/attribution/pkg/logger"
	"github.com/miniapptrack/attribution/pkg/response"
)

// HeaderAPIKey is the header carrying the caller's credential
const HeaderAPIKey = "X-API-Key"

// contextKeyAuth is the gin context key holding the resolved AuthContext
const contextKeyAuth = "auth_context"

// AuthContext is the resolved identity of an authenticated request. Handlers
// read tenant and role from here, never from request fields.
type AuthContext struct {
	KeyID    string
	Role     domain.KeyRole
	TenantID string
}

// GetAuth returns the AuthContext set by APIKeyAuth
func GetAuth(c *gin.Context) (*AuthContext, bool) {
	v, ok := c.Get(contextKeyAuth)
	if !ok {
		return nil, false
	}
	auth, ok := v.(*AuthContext)
	return auth, ok
}

// APIKeyAuth resolves the X-API-Key header against the credential store.
// Missing, unknown and revoked keys all produce the same 401 so callers
// cannot probe which keys exist. Store failures produce a 500, never a 401.
func APIKeyAuth(keys service.KeyService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.GetHeader(HeaderAPIKey)

		k, err := keys.Authenticate(c.Request.Context(), value)
		if err != nil {
			if errors.Is(err, domain.ErrKeyNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized())
				return
			}
			log.WithContext(c.Request.Context()).Error("api key lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.InternalError())
			return
		}

		c.Set(contextKeyAuth, &AuthContext{
			KeyID:    k.ID,
			Role:     k.Role,
			TenantID: k.TenantID,
		})

		// Usage tracking never blocks or fails the request.
		go func(key string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := keys.TouchLastUsed(ctx, key); err != nil {
				log.Warn("failed to record key usage", zap.Error(err))
			}
		}(value)

		c.Next()
	}
}

// RequireRole rejects authenticated requests whose key carries a different
// role. Must run after APIKeyAuth.
func RequireRole(role domain.KeyRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized())
			return
		}
		if auth.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("API key role does not permit this operation"))
			return
		}
		c.Next()
	}
}
