package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/acqtools/devherd/internal/config"
	"github.com/acqtools/devherd/internal/discover"
	"github.com/acqtools/devherd/internal/lifecycle"
	"github.com/acqtools/devherd/internal/schedule"
	"github.com/acqtools/devherd/internal/selector"
	"github.com/acqtools/devherd/internal/session"
	"github.com/acqtools/devherd/internal/store"
	"github.com/acqtools/devherd/internal/telemetry"
)

// Version is injected at build time via ldflags.
var Version = "dev"

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "devherd",
	Short: "Keep lab device workers running in detached tmux sessions",
	Long: `devherd supervises long-running device worker scripts on one host.

Each installed device runs detached in a tmux session named after it.
Cron triggers (at boot and every few minutes) re-run the generated
launcher script so crashed or missing sessions are started again.
The interactive commands let you install, uninstall, start, attach to,
and stop devices.

Configuration is loaded from .devherd.yaml, ~/.config/devherd/config.yaml,
or DEVHERD_* environment variables.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .devherd.yaml, then ~/.config/devherd/config.yaml)")
	rootCmd.Version = Version
}

// app bundles everything a command needs after setup.
type app struct {
	cfg  *config.Config
	orch *lifecycle.Orchestrator
	tel  *telemetry.Telemetry
}

// setup loads config, initializes telemetry, and wires the orchestrator.
// The returned cleanup flushes telemetry and must be deferred.
func setup(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		log.Debug("loaded config file", "path", cfg.ConfigFile)
	}

	telemetry.Version = Version
	tel, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		// Telemetry is ambient; a broken exporter must not block operations.
		log.Warn("otel init failed", "err", err)
	}

	st := store.New(cfg.StateDir, schedule.NewCrontab(cfg.ScheduleInterval))
	st.TmuxBin = cfg.Tmux

	orch := &lifecycle.Orchestrator{
		Backend: session.NewTmux(cfg.Tmux),
		Store:   st,
		Scanner: &discover.Scanner{
			Dir:         cfg.DevicesDir,
			Interpreter: cfg.Interpreter,
			Ext:         ".py",
			Exclude:     cfg.Exclude,
		},
		Prompt: selector.NewPrompter(os.Stdin, os.Stdout),
		Log:    log.Default(),
		Out:    os.Stdout,
	}
	if tel != nil {
		orch.Metrics = tel.Metrics
	}

	cleanup := func() {
		if tel != nil {
			tel.Shutdown(ctx)
		}
	}
	return &app{cfg: cfg, orch: orch, tel: tel}, cleanup, nil
}
