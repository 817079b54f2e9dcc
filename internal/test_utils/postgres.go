package test_utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/calendarplan/calendarplan/internal/config"
	"github.com/calendarplan/calendarplan/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	pgDatabase = "calendarplan"
	pgUser     = "test_calendarplan"
	pgPassword = "test_calendarplan"
)

// SetupPostgres starts a throwaway Postgres container, applies migrations and
// returns a pool to it. The test is skipped under -short or when no container
// runtime is reachable.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	container, err := startPostgres(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Warnf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to read container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("Failed to read container port: %v", err)
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   pgUser,
		Pass:   pgPassword,
		Name:   pgDatabase,
		Schema: "calendarplan",
	}
	pool, err := database.OpenPostgres(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.MigratePostgres(ctx, pool, cfg); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return pool
}

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, error) {
	container, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithDatabase(pgDatabase),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}
	return container, nil
}
