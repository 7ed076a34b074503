// Package reconciler periodically repairs drift between the local connection
// records and the orchestrator's live state. The orchestrator is the source
// of truth for which connections exist and which spaces they serve.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/spacebridge/connsync-server/internal/orchestrator"
	"github.com/spacebridge/connsync-server/internal/store"
	syncpkg "github.com/spacebridge/connsync-server/internal/sync"
	"github.com/spacebridge/connsync-server/internal/telemetry"
)

const (
	defaultInterval = 5 * time.Minute

	// jitterFactor spreads pass start times by up to ±10% so replicas do
	// not hit the orchestrator in lockstep.
	jitterFactor = 0.1

	listLiveMaxTries = 4
)

// Reconciler runs periodic reconciliation passes until stopped.
type Reconciler struct {
	store    store.ConnectionStore
	orch     orchestrator.Client
	locks    *syncpkg.KeyedLock
	interval time.Duration
	metrics  *telemetry.ReconcilerMetrics
	logger   *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// Option configures optional reconciler behavior.
type Option func(*Reconciler)

// WithMetrics attaches reconciler metrics recording.
func WithMetrics(m *telemetry.ReconcilerMetrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler. The KeyedLock must be the same instance the sync
// manager uses so repairs never interleave with an in-flight attach or
// detach on the same identity. A non-positive interval uses the default.
func New(connStore store.ConnectionStore, orch orchestrator.Client, locks *syncpkg.KeyedLock, interval time.Duration, opts ...Option) *Reconciler {
	if interval <= 0 {
		interval = defaultInterval
	}
	r := &Reconciler{
		store:    connStore,
		orch:     orch,
		locks:    locks,
		interval: interval,
		logger:   slog.Default(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs a pass immediately, then keeps reconciling on a jittered
// interval until Stop is called or the context is canceled.
func (r *Reconciler) Start(ctx context.Context) {
	go func() {
		defer close(r.doneCh)

		r.logger.Info("starting reconciler", "interval", r.interval)
		r.runPass(ctx)

		timer := time.NewTimer(r.jitteredInterval())
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("reconciler stopping, context canceled")
				return
			case <-r.stopCh:
				r.logger.Info("reconciler stopping")
				return
			case <-timer.C:
				r.runPass(ctx)
				timer.Reset(r.jitteredInterval())
			}
		}
	}()
}

// Stop signals the reconciler to exit and waits for the loop to finish.
func (r *Reconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// jitteredInterval returns the base interval adjusted by up to ±10%.
func (r *Reconciler) jitteredInterval() time.Duration {
	jitter := (rand.Float64()*2 - 1) * jitterFactor
	return time.Duration(float64(r.interval) * (1 + jitter))
}

func (r *Reconciler) runPass(ctx context.Context) {
	start := time.Now()
	err := r.ReconcileOnce(ctx)
	r.metrics.RecordPass(ctx, time.Since(start), err == nil)
	if err != nil {
		r.logger.Error("reconciliation pass failed", "error", err)
		return
	}
	r.logger.Debug("reconciliation pass complete", "duration", time.Since(start))
}

// ReconcileOnce runs a single reconciliation pass: every live connection gets
// a matching local record with the live space set, and local records with no
// live counterpart are pruned once they are older than one interval. The age
// guard keeps a record created between the snapshot and the repair from
// being deleted.
func (r *Reconciler) ReconcileOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-r.interval)

	live, err := r.listLive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list live connections: %w", err)
	}

	local, err := r.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list local connections: %w", err)
	}

	liveByKey := make(map[string]orchestrator.LiveConnection, len(live))
	for _, conn := range live {
		liveByKey[syncpkg.IdentityKey(conn.Broker, conn.Username)] = conn
	}

	for _, conn := range live {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.repairLive(ctx, conn, cutoff)
	}

	for _, conn := range local {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := liveByKey[syncpkg.IdentityKey(conn.Broker, conn.Username)]; ok {
			continue
		}
		r.pruneLocal(ctx, conn, cutoff)
	}

	return nil
}

// listLive fetches the orchestrator snapshot, retrying transient failures
// with exponential backoff.
func (r *Reconciler) listLive(ctx context.Context) ([]orchestrator.LiveConnection, error) {
	return backoff.Retry(ctx, func() ([]orchestrator.LiveConnection, error) {
		return r.orch.ListLive(ctx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(listLiveMaxTries))
}

// repairLive makes the local record for a live connection match the live
// space set. A record exists only while its space set is non-empty, so a
// live session serving no spaces gets its local row removed rather than
// rewritten. Failures are logged and skipped so one bad identity cannot
// stall the pass.
func (r *Reconciler) repairLive(ctx context.Context, live orchestrator.LiveConnection, cutoff time.Time) {
	key := syncpkg.IdentityKey(live.Broker, live.Username)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	spaces := dedupeSpaces(live.SpaceIDs)
	if len(spaces) == 0 {
		r.removeEmptyRecord(ctx, live, cutoff)
		return
	}

	current, err := r.store.Get(ctx, live.Broker, live.Username)
	if err == nil && sameSpaceSet(current.SpaceIDs, spaces) {
		return
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		r.logger.Error("failed to read local record during reconciliation",
			"broker", live.Broker,
			"username", live.Username,
			"error", err)
		return
	}
	kind := "replaced"
	if errors.Is(err, store.ErrNotFound) {
		kind = "created"
	}

	if err := r.store.ReplaceSpaces(ctx, live.Broker, live.Username, live.ClientID, live.Password, spaces); err != nil {
		r.logger.Error("failed to repair local record",
			"broker", live.Broker,
			"username", live.Username,
			"error", err)
		return
	}

	r.logger.Info("repaired local connection record",
		"broker", live.Broker,
		"username", live.Username,
		"repair", kind,
		"spaces", len(spaces))
	r.metrics.RecordRepair(ctx, kind)
}

// removeEmptyRecord handles a live session that serves no spaces. The
// orchestrator may keep such a session open after the last disassociate, but
// locally it must not be represented by a row. The age guard applies here
// too: the snapshot may predate an attach that just committed.
func (r *Reconciler) removeEmptyRecord(ctx context.Context, live orchestrator.LiveConnection, cutoff time.Time) {
	deleted, err := r.store.DeleteBefore(ctx, live.Broker, live.Username, cutoff)
	if err != nil {
		r.logger.Error("failed to remove record for empty live connection",
			"broker", live.Broker,
			"username", live.Username,
			"error", err)
		return
	}
	if !deleted {
		return
	}

	r.logger.Info("pruned local connection with empty live space set",
		"broker", live.Broker,
		"username", live.Username)
	r.metrics.RecordRepair(ctx, "pruned")
}

// pruneLocal deletes a local record with no live counterpart, but only once
// it has aged past the cutoff.
func (r *Reconciler) pruneLocal(ctx context.Context, conn store.Connection, cutoff time.Time) {
	key := syncpkg.IdentityKey(conn.Broker, conn.Username)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	deleted, err := r.store.DeleteBefore(ctx, conn.Broker, conn.Username, cutoff)
	if err != nil {
		r.logger.Error("failed to prune local record",
			"broker", conn.Broker,
			"username", conn.Username,
			"error", err)
		return
	}
	if !deleted {
		return
	}

	r.logger.Info("pruned local connection with no live counterpart",
		"broker", conn.Broker,
		"username", conn.Username)
	r.metrics.RecordRepair(ctx, "pruned")
}

// dedupeSpaces drops duplicate space ids while preserving order. The
// snapshot payload is not trusted to be a set.
func dedupeSpaces(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameSpaceSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
