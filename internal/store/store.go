// Package store persists the operator-declared set of devices that should
// always be running.
//
// Two artifacts live in the state directory and are regenerated wholesale on
// every mutation:
//
//   - devices.yaml: the ordered device records, the source of truth read back
//     by List.
//   - ensure-devices.sh: an executable launcher with one ensure-running
//     directive per device, invoked by the cron triggers.
//
// Both exist exactly when at least one device is installed, and the schedule
// is armed exactly when the launcher exists. That invariant is enforced here,
// inside the mutation methods, not left to callers.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/acqtools/devherd/internal/discover"
	"github.com/acqtools/devherd/internal/schedule"
)

const (
	stateFile  = "devices.yaml"
	scriptFile = "ensure-devices.sh"
)

// Store is the desired-state store rooted at one state directory.
type Store struct {
	dir       string
	scheduler schedule.Scheduler

	// TmuxBin is the tmux binary written into the launcher script.
	// Empty means "tmux".
	TmuxBin string
}

// New creates a store rooted at dir. Mutations arm or disarm sched as the
// set becomes non-empty or empty.
func New(dir string, sched schedule.Scheduler) *Store {
	return &Store{dir: dir, scheduler: sched}
}

// Path returns the device record file path.
func (s *Store) Path() string { return filepath.Join(s.dir, stateFile) }

// ScriptPath returns the launcher script path, the key for the cron entries.
func (s *Store) ScriptPath() string { return filepath.Join(s.dir, scriptFile) }

// List returns the installed devices in file order. A missing record file is
// an empty store, not an error.
func (s *Store) List() ([]discover.Device, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.Path(), err)
	}

	var doc struct {
		Devices []discover.Device `yaml:"devices"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path(), err)
	}
	return doc.Devices, nil
}

// Install merges the given devices into the store, de-duplicated by id.
// Existing entries keep their position and their launch command; new ids are
// appended in the order given. The artifacts are rewritten in full and the
// schedule is armed.
func (s *Store) Install(devices []discover.Device) error {
	current, err := s.List()
	if err != nil {
		return err
	}

	have := make(map[string]bool, len(current))
	for _, d := range current {
		have[d.ID] = true
	}
	merged := current
	for _, d := range devices {
		if have[d.ID] {
			continue
		}
		have[d.ID] = true
		merged = append(merged, d)
	}

	return s.persist(merged)
}

// Uninstall removes the named devices. Unknown ids are ignored. When the
// last device is removed the artifacts are deleted and the schedule is
// disarmed.
func (s *Store) Uninstall(ids []string) error {
	current, err := s.List()
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var remain []discover.Device
	for _, d := range current {
		if !drop[d.ID] {
			remain = append(remain, d)
		}
	}

	return s.persist(remain)
}

// persist rewrites both artifacts for the given set and reconciles the
// schedule with it. An empty set deletes the artifacts instead.
func (s *Store) persist(devices []discover.Device) error {
	if len(devices) == 0 {
		if err := s.scheduler.Disarm(s.ScriptPath()); err != nil {
			return fmt.Errorf("disarming schedule: %w", err)
		}
		for _, p := range []string{s.Path(), s.ScriptPath()} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing %s: %w", p, err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	doc := struct {
		Devices []discover.Device `yaml:"devices"`
	}{Devices: devices}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding device records: %w", err)
	}
	if err := writeAtomic(s.Path(), data, 0o644); err != nil {
		return err
	}
	if err := writeAtomic(s.ScriptPath(), s.renderScript(devices), 0o755); err != nil {
		return err
	}

	if err := s.scheduler.Arm(s.ScriptPath()); err != nil {
		return fmt.Errorf("arming schedule: %w", err)
	}
	return nil
}

// renderScript maps the device set to its launcher form: one ensure-running
// directive per device, in store order. Rendering the same set always
// produces identical bytes.
//
// Each directive skips the create when the session already exists, so the
// healthy steady state runs quietly and exits 0. If two triggers race past
// the guard, the server still rejects the second create ("duplicate
// session"), so at most one session per id ever exists.
func (s *Store) renderScript(devices []discover.Device) []byte {
	tmux := s.TmuxBin
	if tmux == "" {
		tmux = "tmux"
	}
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Managed by devherd. Do not edit: rewritten on every install/uninstall.\n")
	for _, d := range devices {
		fmt.Fprintf(&b, "%s has-session -t =%s 2> /dev/null || %s new-session -d -s %s %q\n",
			tmux, d.ID, tmux, d.ID, d.LaunchCommand)
	}
	return []byte(b.String())
}

// writeAtomic writes data to path via a temp file and rename, so a crash
// mid-write never leaves a truncated artifact for a reconciliation pass to
// misread.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmpName, err)
	}
	return nil
}
