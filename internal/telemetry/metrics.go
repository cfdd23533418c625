package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "devherd"

// Metrics holds all OTEL metric instruments for devherd.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Reconciliation
	ReconcilePasses   metric.Int64Counter
	ReconcileDuration metric.Float64Histogram

	// Per-device outcomes (partitioned by device id via attributes)
	DeviceStarts        metric.Int64Counter
	DeviceStartFailures metric.Int64Counter
	DeviceKills         metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ReconcilePasses, err = meter.Int64Counter("reconcile.passes",
		metric.WithDescription("Reconciliation passes, partitioned by outcome (ok, partial, error)"))
	if err != nil {
		return nil, err
	}

	m.ReconcileDuration, err = meter.Float64Histogram("reconcile.duration",
		metric.WithDescription("Wall time of one reconciliation pass"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.DeviceStarts, err = meter.Int64Counter("device.starts",
		metric.WithDescription("Sessions ensured running, whether freshly created or already present"))
	if err != nil {
		return nil, err
	}

	m.DeviceStartFailures, err = meter.Int64Counter("device.start_failures",
		metric.WithDescription("Per-device ensure-running failures"))
	if err != nil {
		return nil, err
	}

	m.DeviceKills, err = meter.Int64Counter("device.kills",
		metric.WithDescription("Sessions terminated by the operator"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPass records one reconciliation pass with its outcome and duration.
func (m *Metrics) RecordPass(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ReconcilePasses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reconcile.outcome", outcome),
	))
	m.ReconcileDuration.Record(ctx, d.Seconds())
}

// RecordStart records a successful ensure-running for a device.
func (m *Metrics) RecordStart(ctx context.Context, id string) {
	if m == nil {
		return
	}
	m.DeviceStarts.Add(ctx, 1, metric.WithAttributes(attribute.String("device.id", id)))
}

// RecordStartFailure records a failed ensure-running for a device.
func (m *Metrics) RecordStartFailure(ctx context.Context, id string) {
	if m == nil {
		return
	}
	m.DeviceStartFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("device.id", id)))
}

// RecordKill records an operator-initiated session kill.
func (m *Metrics) RecordKill(ctx context.Context, id string) {
	if m == nil {
		return
	}
	m.DeviceKills.Add(ctx, 1, metric.WithAttributes(attribute.String("device.id", id)))
}
