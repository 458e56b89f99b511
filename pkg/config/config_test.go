package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_NAME", "APP_ENVIRONMENT", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT", "SERVER_CORS_ORIGIN",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_DBNAME",
		"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT",
		"ADMIN_SECRET",
		"RATE_LIMIT_EVENTS_PER_MINUTE", "RATE_LIMIT_ANALYTICS_PER_MINUTE",
		"TELEMETRY_ENABLED",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "attribution-api" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "attribution-api")
	}

	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want %q", cfg.App.Environment, "development")
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}

	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled = true, want false by default")
	}

	if cfg.RateLimit.EventsPerMinute != 100 {
		t.Errorf("RateLimit.EventsPerMinute = %d, want 100", cfg.RateLimit.EventsPerMinute)
	}

	if cfg.RateLimit.AnalyticsPerMinute != 60 {
		t.Errorf("RateLimit.AnalyticsPerMinute = %d, want 60", cfg.RateLimit.AnalyticsPerMinute)
	}

	if cfg.Admin.Secret != "" {
		t.Errorf("Admin.Secret = %q, want empty default", cfg.Admin.Secret)
	}
}

func TestLoad_WithEnvOverride(t *testing.T) {
	clearEnv(t)

	os.Setenv("APP_NAME", "test-app")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DATABASE_HOST", "db.example.com")
	os.Setenv("ADMIN_SECRET", "super-secret")
	defer clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test-app")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.example.com")
	}
	if cfg.Admin.Secret != "super-secret" {
		t.Errorf("Admin.Secret = %q, want %q", cfg.Admin.Secret, "super-secret")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	want := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn != want {
		t.Errorf("DSN mismatch:\nwant: %s\ngot:  %s", want, dsn)
	}
}

func TestConfig_Validate(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for port 0")
	}

	cfg.Server.Port = 8080
	cfg.Database.DBName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty database name")
	}
}
