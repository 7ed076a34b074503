package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spacebridge/connsync-server/internal/db/sqlc"
)

// postgresStore is the Postgres-backed ConnectionStore.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a ConnectionStore backed by the given pool.
// The caller is responsible for closing the pool when done.
func NewPostgresStore(pool *pgxpool.Pool) (ConnectionStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Get(ctx context.Context, broker, username string) (*Connection, error) {
	queries := sqlc.New(s.pool)

	row, err := queries.GetConnection(ctx, sqlc.GetConnectionParams{
		Broker:   broker,
		Username: username,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}

	return rowToConnection(row), nil
}

func (s *postgresStore) UpsertWithSpace(
	ctx context.Context, broker, username, clientID, password, spaceID string,
) (*Connection, error) {
	queries := sqlc.New(s.pool)

	row, err := queries.UpsertConnectionWithSpace(ctx, sqlc.UpsertConnectionWithSpaceParams{
		Broker:   broker,
		ClientID: clientID,
		Username: username,
		Password: password,
		SpaceID:  spaceID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert connection: %w", err)
	}

	return rowToConnection(row), nil
}

// RemoveSpaceAndPrune removes the space and deletes an emptied row inside a
// single transaction, so no reader ever observes a committed empty space set.
func (s *postgresStore) RemoveSpaceAndPrune(
	ctx context.Context, broker, username, spaceID string,
) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			_ = rollbackErr
		}
	}()

	queries := sqlc.New(s.pool).WithTx(tx)

	remaining, err := queries.RemoveConnectionSpace(ctx, sqlc.RemoveConnectionSpaceParams{
		Broker:   broker,
		Username: username,
		SpaceID:  spaceID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to remove space: %w", err)
	}

	pruned := false
	if remaining == 0 {
		deleted, err := queries.DeleteConnectionIfEmpty(ctx, sqlc.DeleteConnectionIfEmptyParams{
			Broker:   broker,
			Username: username,
		})
		if err != nil {
			return false, fmt.Errorf("failed to prune emptied connection: %w", err)
		}
		pruned = deleted > 0
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pruned, nil
}

func (s *postgresStore) ReplaceSpaces(
	ctx context.Context, broker, username, clientID, password string, spaceIDs []string,
) error {
	queries := sqlc.New(s.pool)

	_, err := queries.ReplaceConnectionSpaces(ctx, sqlc.ReplaceConnectionSpacesParams{
		Broker:   broker,
		ClientID: clientID,
		Username: username,
		Password: password,
		SpaceIds: spaceIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to replace space set: %w", err)
	}
	return nil
}

func (s *postgresStore) DeleteBefore(
	ctx context.Context, broker, username string, cutoff time.Time,
) (bool, error) {
	queries := sqlc.New(s.pool)

	deleted, err := queries.DeleteConnectionBefore(ctx, sqlc.DeleteConnectionBeforeParams{
		Broker:    broker,
		Username:  username,
		CreatedAt: cutoff,
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}
	return deleted > 0, nil
}

func (s *postgresStore) ListAll(ctx context.Context) ([]Connection, error) {
	queries := sqlc.New(s.pool)

	rows, err := queries.ListConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	conns := make([]Connection, 0, len(rows))
	for _, row := range rows {
		conns = append(conns, *rowToConnection(row))
	}
	return conns, nil
}

func rowToConnection(row sqlc.Connection) *Connection {
	return &Connection{
		Broker:    row.Broker,
		ClientID:  row.ClientID,
		Username:  row.Username,
		Password:  row.Password,
		SpaceIDs:  row.SpaceIds,
		CreatedAt: row.CreatedAt,
	}
}
