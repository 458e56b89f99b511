package dto

import (
	"time"

	"github.com/miniapptrack/attribution/internal/domain"
)

// CreateKeyRequest represents a request to provision a new API key
type CreateKeyRequest struct {
	Role     domain.KeyRole `json:"role" binding:"required,oneof=ingest report"`
	TenantID string         `json:"tenant_id" binding:"required,max=64"`
	Name     string         `json:"name,omitempty" binding:"max=255"`
}

// CreateKeyResponse carries the full key value. This is the only place the
// value appears in a response; listings are redacted.
type CreateKeyResponse struct {
	ID        string         `json:"id"`
	Key       string         `json:"key"`
	Role      domain.KeyRole `json:"role"`
	TenantID  string         `json:"tenant_id"`
	Name      string         `json:"name,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// KeyListItem represents a key in the listing with its value redacted
type KeyListItem struct {
	ID         string         `json:"id"`
	Key        string         `json:"key"`
	Role       domain.KeyRole `json:"role"`
	TenantID   string         `json:"tenant_id"`
	Name       string         `json:"name,omitempty"`
	Active     bool           `json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsedAt *time.Time     `json:"last_used_at,omitempty"`
}

// FromApiKey converts a domain ApiKey to a redacted KeyListItem
func FromApiKey(k *domain.ApiKey) *KeyListItem {
	return &KeyListItem{
		ID:         k.ID,
		Key:        k.Redacted(),
		Role:       k.Role,
		TenantID:   k.TenantID,
		Name:       k.Name,
		Active:     k.Active,
		CreatedAt:  k.CreatedAt,
		LastUsedAt: k.LastUsedAt,
	}
}

// KeyListResponse represents the key listing
type KeyListResponse struct {
	Keys  []*KeyListItem `json:"keys"`
	Total int            `json:"total"`
}

// RevokeKeyRequest identifies the key to deactivate. The key travels in the
// request body so the secret value never appears in URLs or access logs.
type RevokeKeyRequest struct {
	Key string `json:"key" binding:"required,max=64"`
}

// RevokeKeyResponse confirms a revocation
type RevokeKeyResponse struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Revoked bool   `json:"revoked"`
}
