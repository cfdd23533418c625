package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("devherd")

// Reconcile runs one pass: ensure every desired device has a running session.
// Each device is attempted independently; the pass reports which ones failed
// instead of aborting on the first error. An empty store is a successful
// no-op so a straggling cron trigger never turns into a spurious failure.
func (o *Orchestrator) Reconcile(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "reconcile")
	defer span.End()

	start := time.Now()

	devices, err := o.Store.List()
	if err != nil {
		o.Metrics.RecordPass(ctx, "error", time.Since(start))
		return err
	}
	if len(devices) == 0 {
		o.logger().Debug("reconcile: nothing installed")
		o.Metrics.RecordPass(ctx, "ok", time.Since(start))
		return nil
	}

	span.SetAttributes(attribute.Int("reconcile.devices", len(devices)))

	var failed []string
	for _, d := range devices {
		if err := o.startOne(ctx, d); err != nil {
			failed = append(failed, d.ID)
			o.logger().Error("reconcile: device failed", "device", d.ID, "err", err)
			o.Metrics.RecordStartFailure(ctx, d.ID)
			continue
		}
		o.logger().Debug("reconcile: device ensured", "device", d.ID)
		o.Metrics.RecordStart(ctx, d.ID)
	}

	if len(failed) > 0 {
		o.Metrics.RecordPass(ctx, "partial", time.Since(start))
		return fmt.Errorf("reconcile: %d of %d device(s) failed: %s",
			len(failed), len(devices), strings.Join(failed, ", "))
	}

	o.logger().Info("reconcile: pass complete", "devices", len(devices))
	o.Metrics.RecordPass(ctx, "ok", time.Since(start))
	return nil
}
