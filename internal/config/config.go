// Package config loads devherd configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (DEVHERD_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .devherd.yaml in current directory
//  2. ~/.config/devherd/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all devherd configuration.
type Config struct {
	// Device discovery
	DevicesDir  string   `yaml:"devices_dir"` // directory scanned for worker scripts
	Interpreter string   `yaml:"interpreter"` // prepended to script paths
	Exclude     []string `yaml:"exclude"`     // script names that are never devices

	// State and scheduling
	StateDir         string `yaml:"state_dir"`         // desired-state artifacts live here
	ScheduleInterval int    `yaml:"schedule_interval"` // reconciliation period, minutes

	// Session backend
	Tmux string `yaml:"tmux"` // tmux binary name or path

	// Status TUI
	Refresh string `yaml:"refresh"` // Go duration string, e.g. "5s"
	Theme   string `yaml:"theme"`   // "dark" or "light"

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	RefreshDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DevicesDir:       filepath.Join(home, "devices"),
		Interpreter:      "/usr/bin/python3",
		Exclude:          []string{"setup.py", "util.py"},
		StateDir:         defaultStateDir(home),
		ScheduleInterval: 5,
		Tmux:             "tmux",
		Refresh:          "5s",
		Theme:            "dark",
	}
}

func defaultStateDir(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "devherd")
	}
	return filepath.Join(home, ".local", "state", "devherd")
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
//
// A non-empty path names the config file explicitly; a missing or malformed
// explicit file is an error. With an empty path the usual search order
// applies and no file at all is fine.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	} else if found, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", found, err)
		}
		cfg.ConfigFile = found
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.RefreshDuration, err = time.ParseDuration(cfg.Refresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}
	if cfg.ScheduleInterval < 1 || cfg.ScheduleInterval > 59 {
		return nil, fmt.Errorf("schedule_interval %d out of range 1-59 minutes", cfg.ScheduleInterval)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".devherd.yaml"); err == nil {
		return ".devherd.yaml", data, nil
	}

	// 2. ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "devherd", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.DevicesDir != "" {
		cfg.DevicesDir = file.DevicesDir
	}
	if file.Interpreter != "" {
		cfg.Interpreter = file.Interpreter
	}
	if len(file.Exclude) > 0 {
		cfg.Exclude = file.Exclude
	}
	if file.StateDir != "" {
		cfg.StateDir = file.StateDir
	}
	if file.ScheduleInterval > 0 {
		cfg.ScheduleInterval = file.ScheduleInterval
	}
	if file.Tmux != "" {
		cfg.Tmux = file.Tmux
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("DEVHERD_DEVICES_DIR"); v != "" {
		cfg.DevicesDir = v
	}
	if v := os.Getenv("DEVHERD_INTERPRETER"); v != "" {
		cfg.Interpreter = v
	}
	if v := os.Getenv("DEVHERD_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("DEVHERD_SCHEDULE_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ScheduleInterval = n
		}
	}
	if v := os.Getenv("DEVHERD_TMUX"); v != "" {
		cfg.Tmux = v
	}
	if v := os.Getenv("DEVHERD_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("DEVHERD_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}
