package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/pkg/database"
)

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func setupTestDB(t *testing.T) *database.PostgresDB {
	ctx := context.Background()

	cfg := &database.PostgresConfig{
		Host:            getEnv("POSTGRES_HOST", "localhost"),
		Port:            5432,
		User:            getEnv("POSTGRES_USER", "postgres"),
		Password:        getEnv("POSTGRES_PASSWORD", ""),
		Database:        getEnv("POSTGRES_DB", "attribution"),
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 1 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
	}

	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func cleanupTestData(t *testing.T, db *database.PostgresDB) {
	ctx := context.Background()
	for _, stmt := range []string{
		"DELETE FROM payment_events WHERE tenant_id LIKE 'test-tenant-%'",
		"DELETE FROM app_open_events WHERE tenant_id LIKE 'test-tenant-%'",
		"DELETE FROM attributed_users WHERE tenant_id LIKE 'test-tenant-%'",
		"DELETE FROM api_keys WHERE tenant_id LIKE 'test-tenant-%'",
	} {
		if _, err := db.Pool().Exec(ctx, stmt); err != nil {
			t.Logf("Warning: failed to cleanup test data: %v", err)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestPostgresApiKeyRepository_CreateAndGet(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresApiKeyRepository(db.Pool())
	ctx := context.Background()

	k := &domain.ApiKey{
		ID:        uuid.NewString(),
		Key:       "test-key-" + uuid.NewString(),
		Role:      domain.RoleIngest,
		TenantID:  "test-tenant-create",
		Name:      "ci key",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, k); err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	found, err := repo.GetByKey(ctx, k.Key)
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}
	if found.Role != domain.RoleIngest {
		t.Errorf("Expected role %s, got %s", domain.RoleIngest, found.Role)
	}
	if found.TenantID != k.TenantID {
		t.Errorf("Expected tenant %s, got %s", k.TenantID, found.TenantID)
	}
	if found.LastUsedAt != nil {
		t.Errorf("Expected nil LastUsedAt for fresh key, got %v", found.LastUsedAt)
	}
}

func TestPostgresApiKeyRepository_Create_Duplicate(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresApiKeyRepository(db.Pool())
	ctx := context.Background()

	value := "test-key-" + uuid.NewString()
	k1 := &domain.ApiKey{ID: uuid.NewString(), Key: value, Role: domain.RoleIngest, TenantID: "test-tenant-dup", Active: true, CreatedAt: time.Now().UTC()}
	k2 := &domain.ApiKey{ID: uuid.NewString(), Key: value, Role: domain.RoleReport, TenantID: "test-tenant-dup", Active: true, CreatedAt: time.Now().UTC()}

	if err := repo.Create(ctx, k1); err != nil {
		t.Fatalf("Failed to create first key: %v", err)
	}
	if err := repo.Create(ctx, k2); !errors.Is(err, domain.ErrKeyExists) {
		t.Errorf("Expected ErrKeyExists, got %v", err)
	}
}

func TestPostgresApiKeyRepository_Deactivate(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresApiKeyRepository(db.Pool())
	ctx := context.Background()

	k := &domain.ApiKey{
		ID:        uuid.NewString(),
		Key:       "test-key-" + uuid.NewString(),
		Role:      domain.RoleReport,
		TenantID:  "test-tenant-revoke",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, k); err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	revoked, err := repo.Deactivate(ctx, k.Key)
	if err != nil {
		t.Fatalf("Failed to deactivate key: %v", err)
	}
	if revoked.Active {
		t.Error("Expected revoked key to be inactive")
	}

	if _, err := repo.GetByKey(ctx, k.Key); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound after revocation, got %v", err)
	}
}

func TestPostgresApiKeyRepository_NotFound(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()

	repo := NewPostgresApiKeyRepository(db.Pool())
	ctx := context.Background()

	if _, err := repo.GetByKey(ctx, "non-existent-key"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
	if _, err := repo.Deactivate(ctx, "non-existent-key"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestPostgresAttributionRepository_FirstTouchImmutable(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresAttributionRepository(db.Pool())
	ctx := context.Background()
	now := time.Now().UTC()

	first, created, err := repo.UpsertUser(ctx, &domain.AttributedUser{
		TenantID: "test-tenant-ft", EndUserID: 42, FirstCampaign: "summer_sale", LastSeenAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	if !created || first != "summer_sale" {
		t.Errorf("Expected fresh summer_sale attribution, got created=%v first=%s", created, first)
	}

	first, created, err = repo.UpsertUser(ctx, &domain.AttributedUser{
		TenantID: "test-tenant-ft", EndUserID: 42, FirstCampaign: "winter_promo", LastSeenAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	if created {
		t.Error("Expected second upsert to take the update branch")
	}
	if first != "summer_sale" {
		t.Errorf("First campaign changed to %s", first)
	}
}

func TestPostgresAttributionRepository_ConcurrentFirstOpen(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresAttributionRepository(db.Pool())
	ctx := context.Background()
	now := time.Now().UTC()

	const workers = 16
	winners := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			first, _, err := repo.UpsertUser(ctx, &domain.AttributedUser{
				TenantID:      "test-tenant-race",
				EndUserID:     99,
				FirstCampaign: fmt.Sprintf("campaign-%d", i),
				LastSeenAt:    now,
			})
			if err != nil {
				t.Errorf("Failed to upsert user: %v", err)
				return
			}
			winners[i] = first
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if winners[i] != winners[0] {
			t.Fatalf("Writers observed different first campaigns: %s vs %s", winners[0], winners[i])
		}
	}
}

func TestPostgresAttributionRepository_PaymentStats(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresAttributionRepository(db.Pool())
	ctx := context.Background()
	now := time.Now().UTC()

	payments := []*domain.PaymentEvent{
		{ID: uuid.NewString(), TenantID: "test-tenant-stats", Campaign: "summer_sale", EndUserID: 1, Amount: 100, OccurredAt: now},
		{ID: uuid.NewString(), TenantID: "test-tenant-stats", Campaign: "summer_sale", EndUserID: 1, Amount: 50, OccurredAt: now},
		{ID: uuid.NewString(), TenantID: "test-tenant-stats", Campaign: "summer_sale", EndUserID: 2, Amount: 200, OccurredAt: now},
	}
	for _, p := range payments {
		if err := repo.AppendPayment(ctx, p); err != nil {
			t.Fatalf("Failed to append payment: %v", err)
		}
	}

	payers, revenue, err := repo.PaymentStats(ctx, "test-tenant-stats", "summer_sale")
	if err != nil {
		t.Fatalf("Failed to get payment stats: %v", err)
	}
	if payers != 2 {
		t.Errorf("Expected 2 paying users, got %d", payers)
	}
	if revenue != 350 {
		t.Errorf("Expected revenue 350, got %d", revenue)
	}
}

func TestPostgresAttributionRepository_FirstCampaign_NotFound(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()

	repo := NewPostgresAttributionRepository(db.Pool())
	ctx := context.Background()

	_, err := repo.FirstCampaign(ctx, "test-tenant-missing", 123456789)
	if !errors.Is(err, domain.ErrUserNotAttributed) {
		t.Errorf("Expected ErrUserNotAttributed, got %v", err)
	}
}
