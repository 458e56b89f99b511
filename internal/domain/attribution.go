package domain

import (
	"time"
)

// AttributedUser is the per-tenant first-touch record for an end user.
// FirstCampaign is written exactly once, at the user's first recorded
// app-open, and is never overwritten by later opens.
type AttributedUser struct {
	TenantID      string     `json:"tenant_id"`
	EndUserID     int64      `json:"end_user_id"`
	FirstCampaign string     `json:"first_campaign"`
	FirstSeenAt   time.Time  `json:"first_seen_at"`
	LastSeenAt    time.Time  `json:"last_seen_at"`
	DisplayName   string     `json:"display_name,omitempty"`
	LanguageTag   string     `json:"language_tag,omitempty"`
}

// AppOpenEvent marks that an end user has opened the app under a given
// campaign at least once. Unique per (tenant, campaign, end user); repeat
// opens refresh OccurredAt.
type AppOpenEvent struct {
	TenantID   string    `json:"tenant_id"`
	Campaign   string    `json:"campaign"`
	EndUserID  int64     `json:"end_user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentEvent is an append-only payment record. Campaign always holds the
// payer's first-touch campaign, never whatever accompanied the payment call.
// Repeated submissions with the same PaymentRef are stored as separate rows;
// payment ingestion is deliberately not idempotent.
type PaymentEvent struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Campaign   string    `json:"campaign"`
	EndUserID  int64     `json:"end_user_id"`
	Amount     int64     `json:"amount"`
	PaymentRef string    `json:"payment_ref,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CampaignStats is the aggregate for a single campaign parameter.
type CampaignStats struct {
	Campaign       string  `json:"campaign_parameter"`
	Reach          int64   `json:"reach"`
	PayingUsers    int64   `json:"paying_users"`
	Revenue        int64   `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
}
