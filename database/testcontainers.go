package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tclog "github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type nopLogger struct{}

func (*nopLogger) Printf(_ string, _ ...any) {}

var _ tclog.Logger = (*nopLogger)(nil)

var (
	dbName = "testdb"
	dbUser = "testuser"
	dbPass = "testpass"
)

// SetupTestDB creates a Postgres container using testcontainers and runs migrations
func SetupTestDB(t *testing.T) (*pgx.Conn, func()) {
	t.Helper()

	ctx := context.Background()

	connStr := startTestContainer(t)

	db, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)

	// Run migrations
	err = MigrateUp(ctx, db)
	require.NoError(t, err)

	// Test full migration rollback and reapply
	err = MigrateDown(ctx, db)
	require.NoError(t, err)
	err = MigrateUp(ctx, db)
	require.NoError(t, err)

	cleanupFunc := func() {
		_ = db.Close(ctx)
	}

	return db, cleanupFunc
}

// SetupTestPool creates a Postgres container, runs migrations, and returns a
// connection pool for components that operate on *pgxpool.Pool.
func SetupTestPool(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	connStr := startTestContainer(t)

	conn, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, MigrateUp(ctx, conn))
	require.NoError(t, conn.Close(ctx))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	return pool, pool.Close
}

// startTestContainer starts a Postgres container and returns its connection string.
// The container is cleaned up when the test finishes.
func startTestContainer(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPass),
		postgres.BasicWaitStrategies(),
		tc.WithLogger(&nopLogger{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		tc.CleanupContainer(t, postgresContainer)
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return connStr
}
