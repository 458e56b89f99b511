package repository

import (
	"context"

	"github.com/miniapptrack/attribution/internal/domain"
)

// AttributionRepository defines data access for the attribution ledger and
// event stores. First-touch resolution relies entirely on the store's atomic
// insert-if-absent; implementations must not emulate it with a read followed
// by a write.
type AttributionRepository interface {
	// UpsertUser atomically creates the first-touch record for
	// (u.TenantID, u.EndUserID) or, when it already exists, refreshes
	// LastSeenAt and optional profile fields. It returns the first-touch
	// campaign that won: u.FirstCampaign when created is true, the earlier
	// writer's campaign otherwise.
	UpsertUser(ctx context.Context, u *domain.AttributedUser) (firstCampaign string, created bool, err error)

	// UpsertAppOpen records that the user opened the app under e.Campaign,
	// refreshing the timestamp on repeat opens. Idempotent.
	UpsertAppOpen(ctx context.Context, e *domain.AppOpenEvent) error

	// FirstCampaign returns the stored first-touch campaign for an end user,
	// or domain.ErrUserNotAttributed when no record exists.
	FirstCampaign(ctx context.Context, tenantID string, endUserID int64) (string, error)

	// AppendPayment appends a payment row. Never deduplicates.
	AppendPayment(ctx context.Context, p *domain.PaymentEvent) error

	// CountUsersByFirstCampaign counts attributed users whose first touch
	// was the given campaign.
	CountUsersByFirstCampaign(ctx context.Context, tenantID, campaign string) (int64, error)

	// PaymentStats returns the distinct paying-user count and the revenue sum
	// for payments attributed to the given campaign.
	PaymentStats(ctx context.Context, tenantID, campaign string) (payingUsers int64, revenue int64, err error)
}
