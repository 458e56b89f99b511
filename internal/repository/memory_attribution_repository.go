package repository

import (
	"context"
	"sync"

	"github.com/miniapptrack/attribution/internal/domain"
)

type userKey struct {
	tenantID  string
	endUserID int64
}

type appOpenKey struct {
	tenantID  string
	campaign  string
	endUserID int64
}

// MemoryAttributionRepository is an in-memory implementation of
// AttributionRepository for testing and local development. A single mutex
// covers both the user ledger and the event stores, which gives the same
// first-writer-wins outcome as the database's conflict handling.
type MemoryAttributionRepository struct {
	mu       sync.Mutex
	users    map[userKey]*domain.AttributedUser
	appOpens map[appOpenKey]*domain.AppOpenEvent
	payments []*domain.PaymentEvent
}

// NewMemoryAttributionRepository creates a new MemoryAttributionRepository
func NewMemoryAttributionRepository() *MemoryAttributionRepository {
	return &MemoryAttributionRepository{
		users:    make(map[userKey]*domain.AttributedUser),
		appOpens: make(map[appOpenKey]*domain.AppOpenEvent),
		payments: make([]*domain.PaymentEvent, 0),
	}
}

func (r *MemoryAttributionRepository) UpsertUser(ctx context.Context, u *domain.AttributedUser) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userKey{tenantID: u.TenantID, endUserID: u.EndUserID}
	if existing, ok := r.users[key]; ok {
		existing.LastSeenAt = u.LastSeenAt
		if u.DisplayName != "" {
			existing.DisplayName = u.DisplayName
		}
		if u.LanguageTag != "" {
			existing.LanguageTag = u.LanguageTag
		}
		return existing.FirstCampaign, false, nil
	}

	cp := *u
	cp.FirstSeenAt = u.LastSeenAt
	r.users[key] = &cp
	return cp.FirstCampaign, true, nil
}

func (r *MemoryAttributionRepository) UpsertAppOpen(ctx context.Context, e *domain.AppOpenEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := appOpenKey{tenantID: e.TenantID, campaign: e.Campaign, endUserID: e.EndUserID}
	if existing, ok := r.appOpens[key]; ok {
		existing.OccurredAt = e.OccurredAt
		return nil
	}
	cp := *e
	r.appOpens[key] = &cp
	return nil
}

func (r *MemoryAttributionRepository) FirstCampaign(ctx context.Context, tenantID string, endUserID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userKey{tenantID: tenantID, endUserID: endUserID}]
	if !ok {
		return "", domain.ErrUserNotAttributed
	}
	return u.FirstCampaign, nil
}

func (r *MemoryAttributionRepository) AppendPayment(ctx context.Context, p *domain.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *MemoryAttributionRepository) CountUsersByFirstCampaign(ctx context.Context, tenantID, campaign string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, u := range r.users {
		if u.TenantID == tenantID && u.FirstCampaign == campaign {
			count++
		}
	}
	return count, nil
}

func (r *MemoryAttributionRepository) PaymentStats(ctx context.Context, tenantID, campaign string) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var revenue int64
	payers := make(map[int64]struct{})
	for _, p := range r.payments {
		if p.TenantID == tenantID && p.Campaign == campaign {
			payers[p.EndUserID] = struct{}{}
			revenue += p.Amount
		}
	}
	return int64(len(payers)), revenue, nil
}
