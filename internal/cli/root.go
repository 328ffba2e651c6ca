// Package cli implements the kanban command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"kanban/internal/config"
	"kanban/internal/repository/sqlite"
)

// RootOptions holds global flags for all commands, and the configuration
// and logger resolved from them before any subcommand runs.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	cfg *config.Config
	log *slog.Logger
}

// NewRootCommand creates the root command for the kanban CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "kanban - a small task board",
		Long:  "Serve, import and export a kanban board of users, tags and work items.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: search KANBAN_CONFIG, ./kanban.yaml, XDG dirs)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// setup loads configuration, applies flag overrides and installs the logger
func (o *RootOptions) setup(logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if o.ConfigPath != "" {
		cfg, _, err = config.LoadFromPath(o.ConfigPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return err
	}

	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	o.cfg = cfg
	o.log = logger
	return nil
}

// newLogger builds a text or JSON slog logger for the configured level
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

// openStore opens the configured database
func (o *RootOptions) openStore() (*sqlite.Repository, error) {
	db := o.cfg.Database
	repo, err := sqlite.New(db.Path,
		sqlite.WithLogger(o.log),
		sqlite.WithBusyTimeout(db.BusyTimeout.Duration()),
		sqlite.WithSlowThreshold(db.SlowThreshold.Duration()),
		sqlite.WithQueryLogging(db.LogQueries),
	)
	if err != nil {
		return nil, err
	}
	o.log.Debug("database opened", "path", db.Path)
	return repo, nil
}
