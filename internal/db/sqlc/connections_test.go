package sqlc

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacebridge/connsync-server/database"
)

func TestUpsertConnectionWithSpace(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		setupFunc    func(t *testing.T, queries *Queries)
		scenarioFunc func(t *testing.T, queries *Queries)
	}{
		{
			name:      "insert creates row with single space",
			setupFunc: func(_ *testing.T, _ *Queries) {},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, queries *Queries) {
				conn, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker:   "irc.example.net:6667",
					ClientID: "client-1",
					Username: "bridge-bot",
					Password: "secret",
					SpaceID:  "space-a",
				})
				require.NoError(t, err)
				assert.Equal(t, []string{"space-a"}, conn.SpaceIds)
				assert.False(t, conn.CreatedAt.IsZero())
			},
		},
		{
			name: "conflict unions new space",
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(t *testing.T, queries *Queries) {
				_, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker: "irc.example.net:6667", ClientID: "client-1",
					Username: "bridge-bot", Password: "secret", SpaceID: "space-a",
				})
				require.NoError(t, err)
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, queries *Queries) {
				conn, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker: "irc.example.net:6667", ClientID: "client-1",
					Username: "bridge-bot", Password: "secret", SpaceID: "space-b",
				})
				require.NoError(t, err)
				assert.ElementsMatch(t, []string{"space-a", "space-b"}, conn.SpaceIds)
			},
		},
		{
			name: "conflict with member space is idempotent",
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(t *testing.T, queries *Queries) {
				_, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker: "irc.example.net:6667", ClientID: "client-1",
					Username: "bridge-bot", Password: "secret", SpaceID: "space-a",
				})
				require.NoError(t, err)
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, queries *Queries) {
				conn, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker: "irc.example.net:6667", ClientID: "client-1",
					Username: "bridge-bot", Password: "secret", SpaceID: "space-a",
				})
				require.NoError(t, err)
				assert.Equal(t, []string{"space-a"}, conn.SpaceIds)
			},
		},
		{
			name: "conflict never rewrites credentials",
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(t *testing.T, queries *Queries) {
				_, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker: "irc.example.net:6667", ClientID: "client-1",
					Username: "bridge-bot", Password: "secret", SpaceID: "space-a",
				})
				require.NoError(t, err)
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, queries *Queries) {
				conn, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
					Broker: "irc.example.net:6667", ClientID: "rotated-client",
					Username: "bridge-bot", Password: "rotated-secret", SpaceID: "space-b",
				})
				require.NoError(t, err)
				assert.Equal(t, "client-1", conn.ClientID)
				assert.Equal(t, "secret", conn.Password)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, cleanupFunc := database.SetupTestDB(t)
			t.Cleanup(cleanupFunc)
			queries := New(db)
			require.NotNil(t, queries)

			tc.setupFunc(t, queries)
			tc.scenarioFunc(t, queries)
		})
	}
}

func TestRemoveConnectionSpace(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	seedConnection(t, queries, "irc.example.net:6667", "bridge-bot", "space-a", "space-b")

	remaining, err := queries.RemoveConnectionSpace(ctx, RemoveConnectionSpaceParams{
		Broker: "irc.example.net:6667", Username: "bridge-bot", SpaceID: "space-a",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), remaining)

	// Removing a non-member space leaves the set unchanged.
	remaining, err = queries.RemoveConnectionSpace(ctx, RemoveConnectionSpaceParams{
		Broker: "irc.example.net:6667", Username: "bridge-bot", SpaceID: "space-x",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), remaining)

	// Removing from a missing identity reports no rows.
	_, err = queries.RemoveConnectionSpace(ctx, RemoveConnectionSpaceParams{
		Broker: "nowhere", Username: "nobody", SpaceID: "space-a",
	})
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestDeleteConnectionIfEmpty(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	seedConnection(t, queries, "irc.example.net:6667", "bridge-bot", "space-a")

	// Non-empty rows are not deleted.
	deleted, err := queries.DeleteConnectionIfEmpty(ctx, DeleteConnectionIfEmptyParams{
		Broker: "irc.example.net:6667", Username: "bridge-bot",
	})
	require.NoError(t, err)
	assert.Zero(t, deleted)

	remaining, err := queries.RemoveConnectionSpace(ctx, RemoveConnectionSpaceParams{
		Broker: "irc.example.net:6667", Username: "bridge-bot", SpaceID: "space-a",
	})
	require.NoError(t, err)
	require.Zero(t, remaining)

	deleted, err = queries.DeleteConnectionIfEmpty(ctx, DeleteConnectionIfEmptyParams{
		Broker: "irc.example.net:6667", Username: "bridge-bot",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = queries.GetConnection(ctx, GetConnectionParams{
		Broker: "irc.example.net:6667", Username: "bridge-bot",
	})
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestReplaceConnectionSpaces(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	// Creates a missing row.
	conn, err := queries.ReplaceConnectionSpaces(ctx, ReplaceConnectionSpacesParams{
		Broker: "irc.example.net:6667", ClientID: "client-1",
		Username: "bridge-bot", Password: "secret",
		SpaceIds: []string{"space-a", "space-b"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"space-a", "space-b"}, conn.SpaceIds)

	// Replaces a diverged set without touching credentials.
	conn, err = queries.ReplaceConnectionSpaces(ctx, ReplaceConnectionSpacesParams{
		Broker: "irc.example.net:6667", ClientID: "other-client",
		Username: "bridge-bot", Password: "other-secret",
		SpaceIds: []string{"space-c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"space-c"}, conn.SpaceIds)
	assert.Equal(t, "client-1", conn.ClientID)
	assert.Equal(t, "secret", conn.Password)
}

func TestListConnections(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	conns, err := queries.ListConnections(ctx)
	require.NoError(t, err)
	assert.Empty(t, conns)

	seedConnection(t, queries, "irc.example.net:6667", "bridge-bot", "space-a")
	seedConnection(t, queries, "amqp.example.net:5672", "queue-bot", "space-b")

	conns, err = queries.ListConnections(ctx)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	// Ordered by broker, then username.
	assert.Equal(t, "amqp.example.net:5672", conns[0].Broker)
	assert.Equal(t, "irc.example.net:6667", conns[1].Broker)
}

func seedConnection(t *testing.T, queries *Queries, broker, username string, spaceIDs ...string) {
	t.Helper()

	for _, spaceID := range spaceIDs {
		_, err := queries.UpsertConnectionWithSpace(context.Background(), UpsertConnectionWithSpaceParams{
			Broker:   broker,
			ClientID: "client-" + username,
			Username: username,
			Password: "secret",
			SpaceID:  spaceID,
		})
		require.NoError(t, err)
	}
}
