package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetrics records the outcomes of attach/detach operations and the
// store failures that leave local state behind the orchestrator.
type SyncMetrics struct {
	attachTotal  metric.Int64Counter
	detachTotal  metric.Int64Counter
	driftTotal   metric.Int64Counter
	syncDuration metric.Float64Histogram
}

// NewSyncMetrics creates the sync operation instruments on the given meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	attachTotal, err := meter.Int64Counter(
		"connsync.attach.total",
		metric.WithDescription("Total attach operations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attach counter: %w", err)
	}

	detachTotal, err := meter.Int64Counter(
		"connsync.detach.total",
		metric.WithDescription("Total detach operations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create detach counter: %w", err)
	}

	driftTotal, err := meter.Int64Counter(
		"connsync.store.drift.total",
		metric.WithDescription("Local store failures after a successful orchestrator call (drift until next reconciliation)"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drift counter: %w", err)
	}

	syncDuration, err := meter.Float64Histogram(
		"connsync.sync.duration",
		metric.WithDescription("Duration of attach/detach operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync duration histogram: %w", err)
	}

	return &SyncMetrics{
		attachTotal:  attachTotal,
		detachTotal:  detachTotal,
		driftTotal:   driftTotal,
		syncDuration: syncDuration,
	}, nil
}

// RecordAttach records one attach operation with its outcome ("attached",
// "associated", "noop", or "error").
func (m *SyncMetrics) RecordAttach(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.attachTotal.Add(ctx, 1, attrs)
	m.syncDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("operation", "attach"), attribute.String("outcome", outcome)))
}

// RecordDetach records one detach operation with its outcome ("detached",
// "pruned", or "error").
func (m *SyncMetrics) RecordDetach(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.detachTotal.Add(ctx, 1, attrs)
	m.syncDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("operation", "detach"), attribute.String("outcome", outcome)))
}

// RecordDrift records a local store failure after the orchestrator call
// already succeeded. Operators alert on the rate of this counter.
func (m *SyncMetrics) RecordDrift(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.driftTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// ReconcilerMetrics records reconciliation pass results.
type ReconcilerMetrics struct {
	repairTotal  metric.Int64Counter
	passDuration metric.Float64Histogram
}

// NewReconcilerMetrics creates the reconciliation instruments on the given meter.
func NewReconcilerMetrics(meter metric.Meter) (*ReconcilerMetrics, error) {
	repairTotal, err := meter.Int64Counter(
		"connsync.reconcile.repairs.total",
		metric.WithDescription("Local records repaired by reconciliation, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create repair counter: %w", err)
	}

	passDuration, err := meter.Float64Histogram(
		"connsync.reconcile.pass.duration",
		metric.WithDescription("Duration of reconciliation passes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass duration histogram: %w", err)
	}

	return &ReconcilerMetrics{
		repairTotal:  repairTotal,
		passDuration: passDuration,
	}, nil
}

// RecordRepair records one repaired identity. Kind is "created", "replaced",
// or "pruned".
func (m *ReconcilerMetrics) RecordRepair(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.repairTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordPass records the duration and success of one reconciliation pass.
func (m *ReconcilerMetrics) RecordPass(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.passDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("success", success)))
}
