package repository

import (
	"context"

	"github.com/miniapptrack/attribution/internal/domain"
)

// ApiKeyRepository defines data access for API credentials
type ApiKeyRepository interface {
	// GetByKey resolves an active key by exact value. Inactive and unknown
	// keys both return domain.ErrKeyNotFound.
	GetByKey(ctx context.Context, key string) (*domain.ApiKey, error)
	// Create persists a newly provisioned key
	Create(ctx context.Context, k *domain.ApiKey) error
	// Deactivate revokes a key by value. Returns domain.ErrKeyNotFound when
	// no such key exists.
	Deactivate(ctx context.Context, key string) (*domain.ApiKey, error)
	// List returns all keys, newest first, including revoked ones
	List(ctx context.Context) ([]*domain.ApiKey, error)
	// TouchLastUsed records key usage. Best-effort telemetry: callers ignore
	// the returned error beyond logging it.
	TouchLastUsed(ctx context.Context, key string) error
}
