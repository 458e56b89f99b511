package di

import (
	"github.com/redis/go-redis/v9"

	"github.com/miniapptrack/attribution/internal/handler"
	"github.com/miniapptrack/attribution/internal/repository"
	"github.com/miniapptrack/attribution/internal/service"
	"github.com/miniapptrack/attribution/pkg/database"
	"github.com/miniapptrack/attribution/pkg/logger"
)

// Container holds all dependencies for the attribution service
type Container struct {
	// Infrastructure
	DB     *database.PostgresDB
	Redis  *redis.Client
	Logger *logger.Logger

	// Repositories
	KeyRepo         repository.ApiKeyRepository
	AttributionRepo repository.AttributionRepository

	// Services
	KeyService       service.KeyService
	RecorderService  service.RecorderService
	AnalyticsService service.AnalyticsService

	// Handlers
	HealthHandler    *handler.HealthHandler
	EventHandler     *handler.EventHandler
	AnalyticsHandler *handler.AnalyticsHandler
	AdminHandler     *handler.AdminHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB              *database.PostgresDB
	Redis           *redis.Client
	Logger          *logger.Logger
	KeyRepo         repository.ApiKeyRepository
	AttributionRepo repository.AttributionRepository
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:              cfg.DB,
		Redis:           cfg.Redis,
		Logger:          cfg.Logger,
		KeyRepo:         cfg.KeyRepo,
		AttributionRepo: cfg.AttributionRepo,
	}
	if c.Logger == nil {
		c.Logger = logger.NewNop()
	}

	// Initialize services
	c.KeyService = service.NewKeyService(c.KeyRepo)
	c.RecorderService = service.NewRecorderService(c.AttributionRepo)
	c.AnalyticsService = service.NewAnalyticsService(c.AttributionRepo)

	// Initialize handlers
	var db handler.Pinger
	if c.DB != nil {
		db = c.DB
	}
	c.HealthHandler = handler.NewHealthHandler(db)
	c.EventHandler = handler.NewEventHandler(c.RecorderService, c.Logger)
	c.AnalyticsHandler = handler.NewAnalyticsHandler(c.AnalyticsService, c.Logger)
	c.AdminHandler = handler.NewAdminHandler(c.KeyService, c.Logger)

	return c
}
