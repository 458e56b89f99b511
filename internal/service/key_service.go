package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/repository"
)

// keyBytes is the entropy per key; values are hex-encoded to 64 characters.
const keyBytes = 32

// KeyService defines the interface for API credential management
type KeyService interface {
	// Generate provisions a new key and returns its full value, the only
	// time the value is ever exposed.
	Generate(ctx context.Context, req *dto.CreateKeyRequest) (*dto.CreateKeyResponse, error)
	// List returns all keys with values redacted, newest first
	List(ctx context.Context) (*dto.KeyListResponse, error)
	// Revoke deactivates a key by its full value
	Revoke(ctx context.Context, key string) (*dto.RevokeKeyResponse, error)
	// Authenticate resolves an active key by value
	Authenticate(ctx context.Context, key string) (*domain.ApiKey, error)
	// TouchLastUsed records key usage, best effort
	TouchLastUsed(ctx context.Context, key string) error
}

// keyService implements KeyService
type keyService struct {
	keyRepo repository.ApiKeyRepository
}

// NewKeyService creates a new KeyService
func NewKeyService(keyRepo repository.ApiKeyRepository) KeyService {
	return &keyService{keyRepo: keyRepo}
}

func (s *keyService) Generate(ctx context.Context, req *dto.CreateKeyRequest) (*dto.CreateKeyResponse, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("invalid key role: %s", req.Role)
	}

	value, err := generateKeyValue()
	if err != nil {
		return nil, err
	}

	k := &domain.ApiKey{
		ID:        uuid.NewString(),
		Key:       value,
		Role:      req.Role,
		TenantID:  req.TenantID,
		Name:      req.Name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.keyRepo.Create(ctx, k); err != nil {
		return nil, err
	}

	return &dto.CreateKeyResponse{
		ID:        k.ID,
		Key:       k.Key,
		Role:      k.Role,
		TenantID:  k.TenantID,
		Name:      k.Name,
		CreatedAt: k.CreatedAt,
	}, nil
}

func (s *keyService) List(ctx context.Context) (*dto.KeyListResponse, error) {
	keys, err := s.keyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.KeyListItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, dto.FromApiKey(k))
	}
	return &dto.KeyListResponse{Keys: items, Total: len(items)}, nil
}

func (s *keyService) Revoke(ctx context.Context, key string) (*dto.RevokeKeyResponse, error) {
	revoked, err := s.keyRepo.Deactivate(ctx, key)
	if err != nil {
		return nil, err
	}
	return &dto.RevokeKeyResponse{
		ID:      revoked.ID,
		Key:     revoked.Redacted(),
		Revoked: !revoked.Active,
	}, nil
}

func (s *keyService) Authenticate(ctx context.Context, key string) (*domain.ApiKey, error) {
	if key == "" {
		return nil, domain.ErrKeyNotFound
	}
	return s.keyRepo.GetByKey(ctx, key)
}

func (s *keyService) TouchLastUsed(ctx context.Context, key string) error {
	return s.keyRepo.TouchLastUsed(ctx, key)
}

// generateKeyValue returns a 64-character hex key from crypto/rand
func generateKeyValue() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
