package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miniapptrack/attribution/internal/domain"
)

// PostgresAttributionRepository implements AttributionRepository using
// PostgreSQL. The (tenant_id, end_user_id) primary key plus
// INSERT .. ON CONFLICT is the sole mechanism serializing concurrent
// first-open races: exactly one insert wins, the loser's statement takes the
// update branch and observes the winner's first_campaign in RETURNING.
type PostgresAttributionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAttributionRepository creates a new PostgresAttributionRepository
func NewPostgresAttributionRepository(pool *pgxpool.Pool) *PostgresAttributionRepository {
	return &PostgresAttributionRepository{pool: pool}
}

func (r *PostgresAttributionRepository) UpsertUser(ctx context.Context, u *domain.AttributedUser) (string, bool, error) {
	// xmax = 0 distinguishes a fresh insert from the conflict-update branch.
	query := `
		INSERT INTO attributed_users
			(tenant_id, end_user_id, first_campaign, first_seen_at, last_seen_at, display_name, language_tag)
		VALUES ($1, $2, $3, $4, $4, $5, $6)
		ON CONFLICT (tenant_id, end_user_id) DO UPDATE SET
			last_seen_at = EXCLUDED.last_seen_at,
			display_name = COALESCE(EXCLUDED.display_name, attributed_users.display_name),
			language_tag = COALESCE(EXCLUDED.language_tag, attributed_users.language_tag)
		RETURNING first_campaign, (xmax = 0) AS created
	`
	var firstCampaign string
	var created bool
	err := r.pool.QueryRow(ctx, query,
		u.TenantID,
		u.EndUserID,
		u.FirstCampaign,
		u.LastSeenAt,
		nullStringOrValue(u.DisplayName),
		nullStringOrValue(u.LanguageTag),
	).Scan(&firstCampaign, &created)
	if err != nil {
		return "", false, mapConflict(err)
	}
	return firstCampaign, created, nil
}

func (r *PostgresAttributionRepository) UpsertAppOpen(ctx context.Context, e *domain.AppOpenEvent) error {
	query := `
		INSERT INTO app_open_events (tenant_id, campaign, end_user_id, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, campaign, end_user_id) DO UPDATE SET
			occurred_at = EXCLUDED.occurred_at
	`
	_, err := r.pool.Exec(ctx, query, e.TenantID, e.Campaign, e.EndUserID, e.OccurredAt)
	return mapConflict(err)
}

func (r *PostgresAttributionRepository) FirstCampaign(ctx context.Context, tenantID string, endUserID int64) (string, error) {
	var campaign string
	err := r.pool.QueryRow(ctx,
		`SELECT first_campaign FROM attributed_users WHERE tenant_id = $1 AND end_user_id = $2`,
		tenantID, endUserID,
	).Scan(&campaign)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUserNotAttributed
		}
		return "", err
	}
	return campaign, nil
}

func (r *PostgresAttributionRepository) AppendPayment(ctx context.Context, p *domain.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (tenant_id, campaign, end_user_id, amount, payment_ref, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		p.TenantID,
		p.Campaign,
		p.EndUserID,
		p.Amount,
		nullStringOrValue(p.PaymentRef),
		p.OccurredAt,
	)
	return err
}

func (r *PostgresAttributionRepository) CountUsersByFirstCampaign(ctx context.Context, tenantID, campaign string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attributed_users WHERE tenant_id = $1 AND first_campaign = $2`,
		tenantID, campaign,
	).Scan(&count)
	return count, err
}

func (r *PostgresAttributionRepository) PaymentStats(ctx context.Context, tenantID, campaign string) (int64, int64, error) {
	var payingUsers, revenue int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT end_user_id), COALESCE(SUM(amount), 0)
		FROM payment_events
		WHERE tenant_id = $1 AND campaign = $2
	`, tenantID, campaign).Scan(&payingUsers, &revenue)
	return payingUsers, revenue, err
}

// mapConflict converts an unanticipated uniqueness violation into the
// domain-level conflict error.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}
