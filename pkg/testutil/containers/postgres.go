//go:build integration

package containers

import (
	"context"
	"strings"
	"testing"

	"otp-registration/pkg/database"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a migrated Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	ConnStr   string
	DB        database.PgxIface
}

// NewPostgresContainer starts Postgres, applies the embedded migrations and
// terminates the container when the test ends.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("registration"),
		tcpostgres.WithUsername("registration"),
		tcpostgres.WithPassword("registration"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	migrateURL := "pgx5://" + strings.TrimPrefix(connStr, "postgres://")
	if err := database.RunMigrations(migrateURL); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := database.Open(ctx, connStr, 4)
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	t.Cleanup(db.Close)

	return &PostgresContainer{
		Container: container,
		ConnStr:   connStr,
		DB:        db,
	}
}

// Truncate empties every application table.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.Exec(ctx, `TRUNCATE otp_challenges, registrations, form_schemas`)
	return err
}
