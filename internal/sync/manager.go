// Package sync keeps local connection records consistent with the remote
// connection orchestrator. Every mutation calls the orchestrator first and
// commits locally only after the remote side has accepted the change.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spacebridge/connsync-server/internal/orchestrator"
	"github.com/spacebridge/connsync-server/internal/store"
	"github.com/spacebridge/connsync-server/internal/telemetry"
)

// Outcome describes what a sync operation actually did.
type Outcome string

const (
	// OutcomeAttached means a new connection was created remotely and recorded.
	OutcomeAttached Outcome = "attached"
	// OutcomeAssociated means the space was added to an existing connection.
	OutcomeAssociated Outcome = "associated"
	// OutcomeNoOp means the space was already a member; nothing was sent.
	OutcomeNoOp Outcome = "noop"
	// OutcomeDetached means the space was removed and the connection remains.
	OutcomeDetached Outcome = "detached"
	// OutcomePruned means removing the last space deleted the record too.
	OutcomePruned Outcome = "pruned"
)

// AttachRequest carries everything needed to attach a space to a connection.
// Credentials are only used when the connection does not exist yet.
type AttachRequest struct {
	Broker   string
	Username string
	ClientID string
	Password string
	SpaceID  string
}

// Manager synchronizes space membership between the local store and the
// remote orchestrator.
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/spacebridge/connsync-server/internal/sync Manager
type Manager interface {
	// AttachSpace makes spaceID a member of the connection identified by
	// (broker, username), creating the connection remotely if needed.
	AttachSpace(ctx context.Context, req AttachRequest) (Outcome, error)

	// DetachSpace removes spaceID from the connection and prunes the record
	// when the last space leaves.
	DetachSpace(ctx context.Context, broker, username, spaceID string) (Outcome, error)
}

// IdentityKey builds the lock key for a connection identity. Brokers are
// hostnames and usernames cannot contain newlines, so the separator cannot
// collide.
func IdentityKey(broker, username string) string {
	return broker + "\n" + username
}

type manager struct {
	store   store.ConnectionStore
	orch    orchestrator.Client
	locks   *KeyedLock
	metrics *telemetry.SyncMetrics
	logger  *slog.Logger
}

// ManagerOption configures optional manager behavior.
type ManagerOption func(*manager)

// WithMetrics attaches sync metrics recording.
func WithMetrics(m *telemetry.SyncMetrics) ManagerOption {
	return func(mgr *manager) {
		mgr.metrics = m
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(mgr *manager) {
		mgr.logger = logger
	}
}

// NewManager creates a Manager. The KeyedLock should be shared with the
// reconciler so repairs never interleave with in-flight operations on the
// same identity.
func NewManager(connStore store.ConnectionStore, orch orchestrator.Client, locks *KeyedLock, opts ...ManagerOption) Manager {
	m := &manager{
		store:  connStore,
		orch:   orch,
		locks:  locks,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *manager) AttachSpace(ctx context.Context, req AttachRequest) (Outcome, error) {
	start := time.Now()

	if err := validateAttach(req); err != nil {
		return "", err
	}

	key := IdentityKey(req.Broker, req.Username)
	m.locks.Lock(key)
	defer m.locks.Unlock(key)

	outcome, err := m.attachLocked(ctx, req)
	if err == nil {
		m.metrics.RecordAttach(ctx, string(outcome), time.Since(start))
	}
	return outcome, err
}

func (m *manager) attachLocked(ctx context.Context, req AttachRequest) (Outcome, error) {
	conn, err := m.store.Get(ctx, req.Broker, req.Username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return m.createAndRecord(ctx, req)
	case err != nil:
		return "", &StoreError{Op: "lookup", Err: err}
	}

	if conn.HasSpace(req.SpaceID) {
		m.logger.Debug("space already attached",
			"broker", req.Broker,
			"username", req.Username,
			"space_id", req.SpaceID)
		return OutcomeNoOp, nil
	}

	if err := m.orch.Associate(ctx, req.Broker, req.Username, req.SpaceID); err != nil {
		return "", remoteSyncError(err)
	}

	if err := m.commitAttach(ctx, req); err != nil {
		return "", err
	}
	return OutcomeAssociated, nil
}

func (m *manager) createAndRecord(ctx context.Context, req AttachRequest) (Outcome, error) {
	spec := orchestrator.ConnectionSpec{
		Broker:   req.Broker,
		Username: req.Username,
		ClientID: req.ClientID,
		Password: req.Password,
	}
	if err := m.orch.Create(ctx, spec, req.SpaceID); err != nil {
		return "", remoteSyncError(err)
	}

	if err := m.commitAttach(ctx, req); err != nil {
		return "", err
	}
	return OutcomeAttached, nil
}

// commitAttach records the membership locally after the orchestrator accepted
// it. A failure here means local and remote state have diverged; the drift is
// logged for the reconciler to repair.
func (m *manager) commitAttach(ctx context.Context, req AttachRequest) error {
	if err := ctx.Err(); err != nil {
		return m.driftError(ctx, "upsert", req.Broker, req.Username, err)
	}

	_, err := m.store.UpsertWithSpace(ctx, req.Broker, req.Username, req.ClientID, req.Password, req.SpaceID)
	if err != nil {
		return m.driftError(ctx, "upsert", req.Broker, req.Username, err)
	}
	return nil
}

func (m *manager) DetachSpace(ctx context.Context, broker, username, spaceID string) (Outcome, error) {
	start := time.Now()

	if err := validateDetach(broker, username, spaceID); err != nil {
		return "", err
	}

	key := IdentityKey(broker, username)
	m.locks.Lock(key)
	defer m.locks.Unlock(key)

	outcome, err := m.detachLocked(ctx, broker, username, spaceID)
	if err == nil {
		m.metrics.RecordDetach(ctx, string(outcome), time.Since(start))
	}
	return outcome, err
}

func (m *manager) detachLocked(ctx context.Context, broker, username, spaceID string) (Outcome, error) {
	conn, err := m.store.Get(ctx, broker, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "", &NotFoundError{Resource: ResourceConnection, Broker: broker, Username: username}
	case err != nil:
		return "", &StoreError{Op: "lookup", Err: err}
	}

	if !conn.HasSpace(spaceID) {
		return "", &NotFoundError{Resource: ResourceAssociation, Broker: broker, Username: username}
	}

	if err := m.orch.Disassociate(ctx, broker, username, spaceID); err != nil {
		return "", remoteSyncError(err)
	}

	if err := ctx.Err(); err != nil {
		return "", m.driftError(ctx, "remove", broker, username, err)
	}

	pruned, err := m.store.RemoveSpaceAndPrune(ctx, broker, username, spaceID)
	if err != nil {
		return "", m.driftError(ctx, "remove", broker, username, err)
	}
	if pruned {
		return OutcomePruned, nil
	}
	return OutcomeDetached, nil
}

// driftError logs a divergence between remote and local state and wraps the
// cause as a StoreError.
func (m *manager) driftError(ctx context.Context, op, broker, username string, err error) error {
	m.logger.Error("local commit failed after remote sync, state has drifted",
		"operation", op,
		"broker", broker,
		"username", username,
		"error", err)
	m.metrics.RecordDrift(ctx, op)
	return &StoreError{Op: op, Err: err}
}

func remoteSyncError(err error) error {
	var remoteErr *orchestrator.RemoteError
	if errors.As(err, &remoteErr) {
		return &RemoteSyncError{
			Status:  remoteErr.Status,
			Message: remoteErr.Message,
			Err:     err,
		}
	}
	return &RemoteSyncError{Message: err.Error(), Err: err}
}

func validateAttach(req AttachRequest) error {
	switch {
	case req.Broker == "":
		return &ValidationError{Field: "broker", Reason: "is required"}
	case req.Username == "":
		return &ValidationError{Field: "username", Reason: "is required"}
	case req.ClientID == "":
		return &ValidationError{Field: "client_id", Reason: "is required"}
	case req.Password == "":
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	return validateSpaceID(req.SpaceID)
}

func validateDetach(broker, username, spaceID string) error {
	switch {
	case broker == "":
		return &ValidationError{Field: "broker", Reason: "is required"}
	case username == "":
		return &ValidationError{Field: "username", Reason: "is required"}
	}
	return validateSpaceID(spaceID)
}

// maxSpaceIDLength bounds space identifiers; they end up in Postgres text
// arrays and orchestrator query strings.
const maxSpaceIDLength = 128

// validateSpaceID checks the space identifier shape: non-empty, bounded
// length, no whitespace or control characters.
func validateSpaceID(spaceID string) error {
	if spaceID == "" {
		return &ValidationError{Field: "space_id", Reason: "is required"}
	}
	if len(spaceID) > maxSpaceIDLength {
		return &ValidationError{Field: "space_id", Reason: "exceeds maximum length"}
	}
	for _, r := range spaceID {
		if r <= ' ' || r == 0x7f {
			return &ValidationError{Field: "space_id", Reason: "contains whitespace or control characters"}
		}
	}
	return nil
}
