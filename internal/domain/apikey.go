package domain

import (
	"fmt"
	"time"
)

// KeyRole is the capability attached to an API key. Roles are mutually
// exclusive: a key either submits events or reads aggregates, never both.
type KeyRole string

const (
	// RoleIngest allows submitting app-open and payment events
	RoleIngest KeyRole = "ingest"
	// RoleReport allows reading campaign aggregates
	RoleReport KeyRole = "report"
)

// Valid reports whether r is a known role
func (r KeyRole) Valid() bool {
	return r == RoleIngest || r == RoleReport
}

// ApiKey represents an API credential scoped to a single tenant.
// Keys are soft-deleted: revocation flips Active to false, the row stays.
type ApiKey struct {
	ID         string     `json:"id"`
	Key        string     `json:"-"`
	Role       KeyRole    `json:"role"`
	TenantID   string     `json:"tenant_id"`
	Name       string     `json:"name,omitempty"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// Redacted returns a display-safe form of the key value: first and last eight
// characters with the middle elided. Listings must never expose the full key.
func (k *ApiKey) Redacted() string {
	if len(k.Key) <= 16 {
		return "****"
	}
	return fmt.Sprintf("%s...%s", k.Key[:8], k.Key[len(k.Key)-8:])
}
