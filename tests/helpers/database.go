package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tvcat/tvcat/internal/database"
)

const (
	dbName     = "TVCAT_DB"
	dbUser     = "postgres"
	dbPassword = "postgres"
)

// SpawnDatabase starts a disposable postgres container, connects the
// database manager to it (which also runs the embedded migrations) and
// returns the open handle. The container is torn down when the test ends.
func SpawnDatabase(t *testing.T) *sqlx.DB {
	if testing.Short() {
		t.Skip("skipping containerised database test in short mode")
	}

	ctx := context.Background()
	postgresC, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:14.1-alpine"),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %s", err)
	}

	t.Cleanup(func() {
		timeout := 5 * time.Second
		if err := postgresC.Stop(ctx, &timeout); err != nil {
			t.Logf("WARNING: failed to stop postgres container: %s", err)
		}
	})

	host, err := postgresC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to resolve container host: %s", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to resolve mapped postgres port: %s", err)
	}

	manager := database.New()
	if err := manager.Connect(database.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		Name:     dbName,
		User:     dbUser,
		Password: dbPassword,
	}); err != nil {
		t.Fatalf("failed to connect to containerised database: %s", err)
	}

	return manager.GetSqlxDb()
}
