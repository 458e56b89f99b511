// Command keygen provisions an ingest/report API key pair for a tenant
// directly against the database, for bootstrapping before the admin API has
// any keys.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/repository"
	"github.com/miniapptrack/attribution/internal/service"
	"github.com/miniapptrack/attribution/pkg/config"
	"github.com/miniapptrack/attribution/pkg/database"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant to provision keys for (required)")
	name := flag.String("name", "", "optional label for the keys")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "usage: keygen -tenant <tenant-id> [-name <label>]")
		os.Exit(2)
	}

	if err := run(*tenantID, *name); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(tenantID, name string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.DBName,
		SSLMode:        cfg.Database.SSLMode,
		MaxConns:       2,
		MinConns:       1,
		ConnectTimeout: 10 * time.Second,
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	keys := service.NewKeyService(repository.NewPostgresApiKeyRepository(db.Pool()))

	for _, role := range []domain.KeyRole{domain.RoleIngest, domain.RoleReport} {
		resp, err := keys.Generate(ctx, &dto.CreateKeyRequest{
			Role:     role,
			TenantID: tenantID,
			Name:     name,
		})
		if err != nil {
			return fmt.Errorf("failed to provision %s key: %w", role, err)
		}
		fmt.Printf("%-7s %s\n", role, resp.Key)
	}

	fmt.Fprintln(os.Stderr, "store these values now; they are not retrievable later")
	return nil
}
