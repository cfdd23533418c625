package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Interpreter != "/usr/bin/python3" {
		t.Errorf("Interpreter: got %q, want %q", cfg.Interpreter, "/usr/bin/python3")
	}
	if cfg.ScheduleInterval != 5 {
		t.Errorf("ScheduleInterval: got %d, want 5", cfg.ScheduleInterval)
	}
	if cfg.Tmux != "tmux" {
		t.Errorf("Tmux: got %q, want %q", cfg.Tmux, "tmux")
	}
	if cfg.Refresh != "5s" {
		t.Errorf("Refresh: got %q, want %q", cfg.Refresh, "5s")
	}
	if len(cfg.Exclude) == 0 {
		t.Error("Exclude: want default exclusions")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	file := `devices_dir: /srv/acq/devices
interpreter: /usr/local/bin/python3
schedule_interval: 10
refresh: 2s
`
	if err := os.WriteFile(filepath.Join(dir, ".devherd.yaml"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	// Env overrides the file.
	t.Setenv("DEVHERD_INTERPRETER", "/opt/py/bin/python3")
	t.Setenv("DEVHERD_SCHEDULE_INTERVAL", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DevicesDir != "/srv/acq/devices" {
		t.Errorf("DevicesDir: got %q, want file value", cfg.DevicesDir)
	}
	if cfg.Interpreter != "/opt/py/bin/python3" {
		t.Errorf("Interpreter: got %q, want env value", cfg.Interpreter)
	}
	if cfg.ScheduleInterval != 7 {
		t.Errorf("ScheduleInterval: got %d, want env value 7", cfg.ScheduleInterval)
	}
	if cfg.RefreshDuration != 2*time.Second {
		t.Errorf("RefreshDuration: got %v, want 2s", cfg.RefreshDuration)
	}
	if cfg.ConfigFile != ".devherd.yaml" {
		t.Errorf("ConfigFile: got %q", cfg.ConfigFile)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("DEVHERD_SCHEDULE_INTERVAL", "90")
	if _, err := Load(""); err == nil {
		t.Error("Load accepted out-of-range schedule_interval")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("devices_dir: /mnt/acq\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if cfg.DevicesDir != "/mnt/acq" {
		t.Errorf("DevicesDir = %q, want value from explicit file", cfg.DevicesDir)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := Load(path); err == nil {
		t.Error("Load of missing explicit config succeeded, want error")
	}
}
