package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ticketboard/internal/board"
	"github.com/roach88/ticketboard/internal/config"
	"github.com/roach88/ticketboard/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	DBPath     string
	Driver     string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ticketboard CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ticketboard",
		Short: "ticketboard - a local kanban board",
		Long:  "Keep tickets in ordered columns and move them around without ever losing their place.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/ticketboard/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides store.path)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "store driver: sqlite, redis or memory (overrides store.driver)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewReorderCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig resolves configuration with command-line overrides applied.
func (o *RootOptions) loadConfig() (config.Config, error) {
	overrides := map[string]any{}
	if o.DBPath != "" {
		overrides["store.path"] = o.DBPath
	}
	if o.Driver != "" {
		overrides["store.driver"] = o.Driver
	}
	if o.Verbose {
		overrides["log.level"] = "debug"
	}
	cfg, err := config.Load(o.ConfigPath, overrides)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// session is an opened board with its cleanup.
type session struct {
	cfg    config.Config
	board  *board.Controller
	logger *slog.Logger
	close  func() error
}

// openBoard loads config, opens the store and initializes the controller.
// Logs go to w.
func (o *RootOptions) openBoard(ctx context.Context, w io.Writer) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg.Log, w)

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}

	ctrl := board.New(st,
		board.WithLogger(logger),
		board.WithStrictReferences(cfg.Board.StrictReferences),
	)
	if err := ctrl.Initialize(ctx); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to initialize board", err)
	}
	logger.Debug("board opened", "driver", cfg.Store.Driver, "path", cfg.Store.Path)

	return &session{cfg: cfg, board: ctrl, logger: logger, close: st.Close}, nil
}

// NewLogger builds the process logger from the log settings.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
