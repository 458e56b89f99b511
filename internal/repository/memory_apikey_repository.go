package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/miniapptrack/attribution/internal/domain"
)

// MemoryApiKeyRepository is an in-memory implementation of ApiKeyRepository
// for testing and local development.
type MemoryApiKeyRepository struct {
	mu   sync.RWMutex
	keys map[string]*domain.ApiKey
}

// NewMemoryApiKeyRepository creates a new MemoryApiKeyRepository
func NewMemoryApiKeyRepository() *MemoryApiKeyRepository {
	return &MemoryApiKeyRepository{
		keys: make(map[string]*domain.ApiKey),
	}
}

func (r *MemoryApiKeyRepository) GetByKey(ctx context.Context, key string) (*domain.ApiKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.keys[key]
	if !ok || !k.Active {
		return nil, domain.ErrKeyNotFound
	}
	cp := *k
	return &cp, nil
}

func (r *MemoryApiKeyRepository) Create(ctx context.Context, k *domain.ApiKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[k.Key]; ok {
		return domain.ErrKeyExists
	}
	cp := *k
	r.keys[k.Key] = &cp
	return nil
}

func (r *MemoryApiKeyRepository) Deactivate(ctx context.Context, key string) (*domain.ApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.keys[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	k.Active = false
	cp := *k
	return &cp, nil
}

func (r *MemoryApiKeyRepository) List(ctx context.Context) ([]*domain.ApiKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]*domain.ApiKey, 0, len(r.keys))
	for _, k := range r.keys {
		cp := *k
		keys = append(keys, &cp)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})
	return keys, nil
}

func (r *MemoryApiKeyRepository) TouchLastUsed(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.keys[key]
	if !ok {
		return domain.ErrKeyNotFound
	}
	now := time.Now().UTC()
	k.LastUsedAt = &now
	return nil
}
