package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateUpDown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, cleanup := SetupTestDB(t)
	t.Cleanup(cleanup)

	// SetupTestDB leaves the schema migrated up; the connections table
	// must exist and be empty.
	var count int
	err := db.QueryRow(ctx, "SELECT count(*) FROM connections").Scan(&count)
	require.NoError(t, err)
	require.Zero(t, count)

	// Migrating down removes the table.
	require.NoError(t, MigrateDown(ctx, db))
	err = db.QueryRow(ctx, "SELECT count(*) FROM connections").Scan(&count)
	require.Error(t, err)

	// Migrations are idempotent: up twice is fine.
	require.NoError(t, MigrateUp(ctx, db))
	require.NoError(t, MigrateUp(ctx, db))
}

func TestMigrationEnforcesIdentityKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, cleanup := SetupTestDB(t)
	t.Cleanup(cleanup)

	_, err := db.Exec(ctx,
		`INSERT INTO connections (broker, client_id, username, password, space_ids)
		 VALUES ($1, $2, $3, $4, $5)`,
		"irc.example.net:6667", "client-1", "bridge-bot", "secret", []string{"space-a"})
	require.NoError(t, err)

	// Same (broker, username) violates the primary key.
	_, err = db.Exec(ctx,
		`INSERT INTO connections (broker, client_id, username, password, space_ids)
		 VALUES ($1, $2, $3, $4, $5)`,
		"irc.example.net:6667", "client-2", "bridge-bot", "other", []string{"space-b"})
	require.Error(t, err)

	// Different username for the same broker is a distinct identity.
	_, err = db.Exec(ctx,
		`INSERT INTO connections (broker, client_id, username, password, space_ids)
		 VALUES ($1, $2, $3, $4, $5)`,
		"irc.example.net:6667", "client-2", "other-bot", "other", []string{"space-b"})
	require.NoError(t, err)
}
