package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/miniapptrack/attribution/internal/di"
	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/middleware"
	"github.com/miniapptrack/attribution/pkg/response"
)

// RouterConfig holds routing and middleware configuration
type RouterConfig struct {
	Container   *di.Container
	AdminSecret string
	CORSOrigin  string

	// Per-minute rate limits; zero disables limiting on that surface
	EventsPerMinute    int
	AnalyticsPerMinute int
	Burst              int

	// Redis enables distributed rate limiting when set
	Redis *redis.Client
}

// SetupRouter builds the gin engine with all routes and middleware
func SetupRouter(cfg *RouterConfig) *gin.Engine {
	c := cfg.Container

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	corsConfig := middleware.DefaultCORSConfig()
	if cfg.CORSOrigin != "" && cfg.CORSOrigin != "*" {
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	}
	r.Use(middleware.CORSWithConfig(corsConfig))

	r.GET("/health", c.HealthHandler.Health)

	auth := middleware.APIKeyAuth(c.KeyService, c.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/events",
			auth,
			middleware.RateLimiter(rateLimitConfig(cfg, cfg.EventsPerMinute)),
			middleware.RequireRole(domain.RoleIngest),
			c.EventHandler.Submit,
		)
		v1.POST("/analytics",
			auth,
			middleware.RateLimiter(rateLimitConfig(cfg, cfg.AnalyticsPerMinute)),
			middleware.RequireRole(domain.RoleReport),
			c.AnalyticsHandler.Stats,
		)

		admin := v1.Group("/admin", middleware.AdminSecret(cfg.AdminSecret))
		{
			admin.POST("/keys", c.AdminHandler.CreateKey)
			admin.GET("/keys", c.AdminHandler.ListKeys)
			admin.DELETE("/keys", c.AdminHandler.RevokeKey)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.NotFound("Route not found"))
	})

	return r
}

func rateLimitConfig(cfg *RouterConfig, perMinute int) middleware.RateLimitConfig {
	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerMinute = perMinute
	if cfg.Burst > 0 {
		rl.BurstSize = cfg.Burst
	}
	rl.RedisClient = cfg.Redis
	rl.CleanupInterval = time.Minute
	return rl
}
