// Package lifecycle ties the session backend, desired-state store, discovery
// and selector together into the operator-facing flows: install, uninstall,
// start, view/stop, and the cron-driven reconcile pass.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/acqtools/devherd/internal/discover"
	"github.com/acqtools/devherd/internal/selector"
	"github.com/acqtools/devherd/internal/session"
	"github.com/acqtools/devherd/internal/store"
	"github.com/acqtools/devherd/internal/telemetry"
)

var (
	// ErrNoDevicesInstalled means a flow needing installed devices found an
	// empty desired-state store.
	ErrNoDevicesInstalled = errors.New("no devices installed")

	// ErrNoDevicesRunning means view/stop found no active sessions.
	ErrNoDevicesRunning = errors.New("no devices running")
)

// Orchestrator coordinates one operator action or reconcile pass at a time.
// Flows are short synchronous sequences; the only call that blocks for long
// is Attach, by design.
type Orchestrator struct {
	Backend session.Backend
	Store   *store.Store
	Scanner *discover.Scanner
	Prompt  *selector.Prompter
	Log     *log.Logger
	Metrics *telemetry.Metrics // nil-safe
	Out     io.Writer          // operator-facing messages
}

func (o *Orchestrator) logger() *log.Logger {
	if o.Log != nil {
		return o.Log
	}
	return log.Default()
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.Out, format+"\n", args...)
}

// Install discovers device scripts not yet installed, lets the operator pick
// a set, persists them (which arms the schedule), and starts them right away
// rather than waiting for the first cron pass.
func (o *Orchestrator) Install(ctx context.Context) error {
	available, err := o.Scanner.Scan()
	if err != nil {
		return err
	}

	installed, err := o.Store.List()
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(installed))
	for _, d := range installed {
		have[d.ID] = true
	}
	var candidates []discover.Device
	for _, d := range available {
		if !have[d.ID] {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no installable devices found in %s", o.Scanner.Dir)
	}

	labels := make([]string, len(candidates))
	for i, d := range candidates {
		labels[i] = d.ID
	}
	picks, err := o.Prompt.ChooseMulti("Devices to install (e.g. 1,3):", labels)
	if err != nil {
		return err
	}
	selected := make([]discover.Device, len(picks))
	for i, idx := range picks {
		selected[i] = candidates[idx-1]
	}

	names := make([]string, len(selected))
	for i, d := range selected {
		names[i] = d.ID
	}
	ok, err := o.Prompt.Confirm(fmt.Sprintf("Install %s?", strings.Join(names, ", ")))
	if err != nil {
		return err
	}
	if !ok {
		o.printf("Aborted.")
		return nil
	}

	if err := o.Store.Install(selected); err != nil {
		return err
	}
	o.printf("Installed %d device(s); reconciliation scheduled.", len(selected))

	return o.startDevices(ctx, selected)
}

// Uninstall removes devices from the desired state. Their sessions keep
// running until stopped or killed; only the guarantee of being restarted
// goes away.
func (o *Orchestrator) Uninstall(ctx context.Context) error {
	installed, err := o.Store.List()
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		return ErrNoDevicesInstalled
	}

	labels := make([]string, len(installed))
	for i, d := range installed {
		labels[i] = d.ID
	}
	picks, err := o.Prompt.ChooseMulti("Devices to uninstall (e.g. 1,3):", labels)
	if err != nil {
		return err
	}
	ids := make([]string, len(picks))
	for i, idx := range picks {
		ids[i] = installed[idx-1].ID
	}

	if err := o.Store.Uninstall(ids); err != nil {
		return err
	}

	remaining, err := o.Store.List()
	if err != nil {
		return err
	}
	o.printf("Uninstalled %s.", strings.Join(ids, ", "))
	if len(remaining) == 0 {
		o.printf("No devices remain; reconciliation schedule removed.")
	}
	return nil
}

// Start lets the operator start installed devices ad hoc, bypassing the
// schedule. Per-device failures do not abort sibling starts.
func (o *Orchestrator) Start(ctx context.Context) error {
	installed, err := o.Store.List()
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		return ErrNoDevicesInstalled
	}

	labels := make([]string, len(installed))
	for i, d := range installed {
		labels[i] = d.ID
	}
	picks, err := o.Prompt.ChooseMulti("Devices to start (e.g. 1,3):", labels)
	if err != nil {
		return err
	}
	selected := make([]discover.Device, len(picks))
	for i, idx := range picks {
		selected[i] = installed[idx-1]
	}

	return o.startDevices(ctx, selected)
}

// Manage lists running sessions and lets the operator attach to or kill one.
func (o *Orchestrator) Manage(ctx context.Context) error {
	running, err := o.Backend.List(ctx)
	if err != nil {
		return err
	}
	if len(running) == 0 {
		return ErrNoDevicesRunning
	}

	idx, err := o.Prompt.Choose("Session number:", running)
	if err != nil {
		return err
	}
	id := running[idx-1]

	action, err := o.Prompt.Choose("Action:", []string{
		"view (attach; detach with prefix-d)",
		"stop (kill session and process tree)",
	})
	if err != nil {
		return err
	}

	switch action {
	case 1:
		return o.Backend.Attach(ctx, id)
	default:
		if err := o.Backend.Kill(ctx, id); err != nil {
			return err
		}
		o.Metrics.RecordKill(ctx, id)
		o.printf("Killed %s.", id)
		return nil
	}
}

// startDevices runs EnsureRunning for each device, isolating failures so one
// broken device never shields its siblings from being started. A script that
// vanished after install is a per-device failure, not silent success.
func (o *Orchestrator) startDevices(ctx context.Context, devices []discover.Device) error {
	var failed []string
	for _, d := range devices {
		if err := o.startOne(ctx, d); err != nil {
			failed = append(failed, d.ID)
			o.logger().Error("device start failed", "device", d.ID, "err", err)
			o.Metrics.RecordStartFailure(ctx, d.ID)
			continue
		}
		o.logger().Info("device running", "device", d.ID)
		o.Metrics.RecordStart(ctx, d.ID)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d device(s) failed to start: %s",
			len(failed), len(devices), strings.Join(failed, ", "))
	}
	return nil
}

func (o *Orchestrator) startOne(ctx context.Context, d discover.Device) error {
	if d.Script != "" {
		if _, err := os.Stat(d.Script); err != nil {
			return fmt.Errorf("launch command unresolvable: %w", err)
		}
	}
	return o.Backend.EnsureRunning(ctx, d.ID, d.LaunchCommand)
}
