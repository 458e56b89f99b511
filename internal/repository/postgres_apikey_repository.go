package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miniapptrack/attribution/internal/domain"
)

const pgUniqueViolation = "23505"

// PostgresApiKeyRepository implements ApiKeyRepository using PostgreSQL
type PostgresApiKeyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresApiKeyRepository creates a new PostgresApiKeyRepository
func NewPostgresApiKeyRepository(pool *pgxpool.Pool) *PostgresApiKeyRepository {
	return &PostgresApiKeyRepository{pool: pool}
}

func (r *PostgresApiKeyRepository) GetByKey(ctx context.Context, key string) (*domain.ApiKey, error) {
	query := `
		SELECT id, key, role, tenant_id, COALESCE(name, '') AS name, active, created_at, last_used_at
		FROM api_keys
		WHERE key = $1 AND active = TRUE
	`
	k := &domain.ApiKey{}
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&k.ID,
		&k.Key,
		&k.Role,
		&k.TenantID,
		&k.Name,
		&k.Active,
		&k.CreatedAt,
		&k.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return k, nil
}

func (r *PostgresApiKeyRepository) Create(ctx context.Context, k *domain.ApiKey) error {
	query := `
		INSERT INTO api_keys (id, key, role, tenant_id, name, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		k.ID,
		k.Key,
		string(k.Role),
		k.TenantID,
		nullStringOrValue(k.Name),
		k.Active,
		k.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrKeyExists
		}
		return err
	}
	return nil
}

func (r *PostgresApiKeyRepository) Deactivate(ctx context.Context, key string) (*domain.ApiKey, error) {
	query := `
		UPDATE api_keys
		SET active = FALSE
		WHERE key = $1
		RETURNING id, key, role, tenant_id, COALESCE(name, '') AS name, active, created_at, last_used_at
	`
	k := &domain.ApiKey{}
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&k.ID,
		&k.Key,
		&k.Role,
		&k.TenantID,
		&k.Name,
		&k.Active,
		&k.CreatedAt,
		&k.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return k, nil
}

func (r *PostgresApiKeyRepository) List(ctx context.Context) ([]*domain.ApiKey, error) {
	query := `
		SELECT id, key, role, tenant_id, COALESCE(name, '') AS name, active, created_at, last_used_at
		FROM api_keys
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]*domain.ApiKey, 0)
	for rows.Next() {
		k := &domain.ApiKey{}
		if err := rows.Scan(
			&k.ID,
			&k.Key,
			&k.Role,
			&k.TenantID,
			&k.Name,
			&k.Active,
			&k.CreatedAt,
			&k.LastUsedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *PostgresApiKeyRepository) TouchLastUsed(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE key = $1`, key, time.Now().UTC())
	return err
}

// nullStringOrValue returns nil for empty strings, otherwise returns the value
func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
