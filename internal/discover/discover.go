// Package discover scans a directory for installable device worker scripts.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Device identifies one installable worker script.
type Device struct {
	// ID is the script base name with its extension stripped. Unique within
	// one scan because ids map 1:1 to file names in a single directory.
	ID string `yaml:"id"`

	// Script is the absolute path to the worker script.
	Script string `yaml:"script"`

	// LaunchCommand is the full command used to start the worker,
	// interpreter included.
	LaunchCommand string `yaml:"launch_command"`
}

// Scanner finds device scripts in a single directory.
type Scanner struct {
	// Dir is the directory to scan.
	Dir string

	// Interpreter is prepended to the script path to form the launch command,
	// e.g. "/usr/bin/python3".
	Interpreter string

	// Ext filters candidate files by extension (with dot), e.g. ".py".
	Ext string

	// Exclude lists base names that are never devices (packaging and helper
	// scripts living next to the workers).
	Exclude []string
}

// Scan returns all devices in Dir, sorted by id.
// A missing or unreadable directory is an error: with nothing to enumerate
// there is nothing any caller can safely act on.
func (s *Scanner) Scan() ([]Device, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("scanning device dir %s: %w", s.Dir, err)
	}

	var devices []Device
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || s.excluded(name) {
			continue
		}
		if s.Ext != "" && filepath.Ext(name) != s.Ext {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", name, err)
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		devices = append(devices, Device{
			ID:            id,
			Script:        abs,
			LaunchCommand: s.Interpreter + " " + abs,
		})
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices, nil
}

func (s *Scanner) excluded(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return true
	}
	for _, ex := range s.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}
