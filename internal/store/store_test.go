package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acqtools/devherd/internal/discover"
	"github.com/acqtools/devherd/internal/schedule"
)

func dev(id string) discover.Device {
	return discover.Device{
		ID:            id,
		Script:        "/opt/devices/" + id + ".py",
		LaunchCommand: "/usr/bin/python3 /opt/devices/" + id + ".py",
	}
}

func newTestStore(t *testing.T) (*Store, *schedule.Fake) {
	t.Helper()
	sched := schedule.NewFake()
	return New(t.TempDir(), sched), sched
}

func ids(devices []discover.Device) []string {
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = d.ID
	}
	return out
}

func TestInstallIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Install([]discover.Device{dev("alpha"), dev("beta")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Install([]discover.Device{dev("alpha")}); err != nil {
		t.Fatal(err)
	}

	devices, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	got := ids(devices)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("devices = %v, want [alpha beta]", got)
	}
}

func TestInstallPreservesOrderAppendsNew(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Install([]discover.Device{dev("beta"), dev("alpha")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Install([]discover.Device{dev("gamma"), dev("beta")}); err != nil {
		t.Fatal(err)
	}

	devices, _ := s.List()
	got := ids(devices)
	want := []string{"beta", "alpha", "gamma"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestInstallArmsSchedule(t *testing.T) {
	s, sched := newTestStore(t)

	if err := s.Install([]discover.Device{dev("alpha")}); err != nil {
		t.Fatal(err)
	}

	entries, _ := sched.Entries(s.ScriptPath())
	if len(entries) != 2 {
		t.Errorf("schedule entries = %v, want boot + interval", entries)
	}
	if _, err := os.Stat(s.ScriptPath()); err != nil {
		t.Errorf("launcher script missing: %v", err)
	}
}

func TestUninstallDrainsScheduleAndArtifacts(t *testing.T) {
	s, sched := newTestStore(t)

	if err := s.Install([]discover.Device{dev("alpha"), dev("beta")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Uninstall([]string{"beta", "alpha", "ghost"}); err != nil {
		t.Fatal(err)
	}

	devices, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 0 {
		t.Errorf("devices after drain = %v, want none", ids(devices))
	}
	if entries, _ := sched.Entries(s.ScriptPath()); len(entries) != 0 {
		t.Errorf("schedule entries after drain = %v, want none", entries)
	}
	for _, p := range []string{s.Path(), s.ScriptPath()} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after drain", p)
		}
	}
}

func TestUninstallUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Install([]discover.Device{dev("alpha")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Uninstall([]string{"ghost"}); err != nil {
		t.Fatal(err)
	}

	devices, _ := s.List()
	if len(devices) != 1 || devices[0].ID != "alpha" {
		t.Errorf("devices = %v, want [alpha]", ids(devices))
	}
}

func TestRegenerationDeterministic(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Install([]discover.Device{dev("alpha"), dev("beta")}); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(s.ScriptPath())
	if err != nil {
		t.Fatal(err)
	}
	firstState, _ := os.ReadFile(s.Path())

	// Unchanged set: rewrite must be byte-identical.
	if err := s.Install(nil); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(s.ScriptPath())
	secondState, _ := os.ReadFile(s.Path())

	if string(first) != string(second) {
		t.Errorf("launcher not deterministic:\n%s\nvs\n%s", first, second)
	}
	if string(firstState) != string(secondState) {
		t.Errorf("record file not deterministic")
	}
}

func TestLauncherScriptShape(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Install([]discover.Device{dev("alpha"), dev("beta")}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.ScriptPath())
	if err != nil {
		t.Fatal(err)
	}
	script := string(data)

	if !strings.HasPrefix(script, "#!/bin/sh\n") {
		t.Errorf("launcher missing shebang: %q", script)
	}
	wantAlpha := `tmux has-session -t =alpha 2> /dev/null || tmux new-session -d -s alpha "/usr/bin/python3 /opt/devices/alpha.py"`
	if !strings.Contains(script, wantAlpha) {
		t.Errorf("launcher missing directive %q in:\n%s", wantAlpha, script)
	}
	// -A must not appear: for an existing session it attaches instead of
	// no-opping, which fails under cron with no terminal.
	if strings.Contains(script, "-Ad") || strings.Contains(script, " -A ") {
		t.Errorf("launcher uses new-session -A:\n%s", script)
	}
	if strings.Index(script, "-s alpha") > strings.Index(script, "-s beta") {
		t.Error("directives out of store order")
	}

	info, err := os.Stat(s.ScriptPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("launcher not executable: %v", info.Mode())
	}
}

func TestListMissingFile(t *testing.T) {
	s, _ := newTestStore(t)
	devices, err := s.List()
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("devices = %v, want none", devices)
	}
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	sched := schedule.NewFake()
	dir := t.TempDir()
	s := New(dir, sched)

	if err := s.Install([]discover.Device{dev("alpha")}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", filepath.Join(dir, e.Name()))
		}
	}
}
