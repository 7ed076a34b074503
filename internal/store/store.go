// Package store provides persistence for connection records keyed by
// (broker, username). Every mutation is atomic with respect to other
// mutations on the same key; callers never read-modify-write the space set.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no connection exists for an identity.
var ErrNotFound = errors.New("connection not found")

// Connection is the persisted record of intent that a (broker, username)
// identity should have a live session, tagged with the spaces that need it.
// A record exists iff SpaceIDs is non-empty.
type Connection struct {
	Broker    string
	ClientID  string
	Username  string
	Password  string
	SpaceIDs  []string
	CreatedAt time.Time
}

// HasSpace reports whether the given space is associated with the connection.
func (c *Connection) HasSpace(spaceID string) bool {
	for _, id := range c.SpaceIDs {
		if id == spaceID {
			return true
		}
	}
	return false
}

// ConnectionStore is the persistence abstraction over connection records.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/spacebridge/connsync-server/internal/store ConnectionStore
type ConnectionStore interface {
	// Get returns the connection for an identity, or ErrNotFound.
	Get(ctx context.Context, broker, username string) (*Connection, error)

	// UpsertWithSpace creates the row with spaces={spaceID} if the identity
	// is unknown, or atomically unions spaceID into the existing space set.
	// Credentials are only written on creation.
	UpsertWithSpace(ctx context.Context, broker, username, clientID, password, spaceID string) (*Connection, error)

	// RemoveSpaceAndPrune atomically removes spaceID from the space set and,
	// if the set becomes empty, deletes the row in the same transaction.
	// Returns whether the row was pruned. ErrNotFound if the identity is
	// unknown.
	RemoveSpaceAndPrune(ctx context.Context, broker, username, spaceID string) (pruned bool, err error)

	// ReplaceSpaces forces the space set for an identity to the given set,
	// creating the row if needed. Used by reconciliation only.
	ReplaceSpaces(ctx context.Context, broker, username, clientID, password string, spaceIDs []string) error

	// DeleteBefore removes the row for an identity only if it was created
	// before the cutoff. Returns whether a row was deleted. Used by
	// reconciliation only.
	DeleteBefore(ctx context.Context, broker, username string, cutoff time.Time) (bool, error)

	// ListAll returns every connection record, reflecting a recent
	// committed state.
	ListAll(ctx context.Context) ([]Connection, error)
}
