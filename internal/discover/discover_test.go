package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/usr/bin/env python3\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "wendi-neutrons.py")
	writeScript(t, dir, "alpha.py")
	writeScript(t, dir, "setup.py")     // excluded by name
	writeScript(t, dir, "_helper.py")   // underscore prefix
	writeScript(t, dir, "notes.txt")    // wrong extension
	writeScript(t, dir, ".hidden.py")   // dotfile
	if err := os.Mkdir(filepath.Join(dir, "libs"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := &Scanner{
		Dir:         dir,
		Interpreter: "/usr/bin/python3",
		Ext:         ".py",
		Exclude:     []string{"setup.py", "util.py"},
	}
	devices, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(devices) != 2 {
		t.Fatalf("got %d devices (%v), want 2", len(devices), devices)
	}
	// Sorted by id.
	if devices[0].ID != "alpha" || devices[1].ID != "wendi-neutrons" {
		t.Errorf("ids = %q, %q; want alpha, wendi-neutrons", devices[0].ID, devices[1].ID)
	}
	want := "/usr/bin/python3 " + filepath.Join(dir, "alpha.py")
	if devices[0].LaunchCommand != want {
		t.Errorf("LaunchCommand = %q, want %q", devices[0].LaunchCommand, want)
	}
}

func TestScanMissingDir(t *testing.T) {
	s := &Scanner{Dir: filepath.Join(t.TempDir(), "nope"), Ext: ".py"}
	if _, err := s.Scan(); err == nil {
		t.Error("Scan of missing dir succeeded, want error")
	}
}

func TestScanEmptyDir(t *testing.T) {
	s := &Scanner{Dir: t.TempDir(), Ext: ".py"}
	devices, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices, want 0", len(devices))
	}
}
