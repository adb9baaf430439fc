package cli

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/msgboard/internal/config"
	"github.com/roach88/msgboard/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Backend    string
	Database   string

	// Environ overrides the process environment when loading config (for testing).
	Environ []string

	// Config is the resolved configuration, set before any subcommand runs.
	Config config.Config

	// Logger writes diagnostics to the command's stderr.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the msgboard CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   ir.ContractName,
		Short: "msgboard - append-only message board",
		Long: `An append-only message board.

Messages are stored with a sequential id, the sender as owner, a topic and
a body. They can be listed in full, by owner, by topic, or looked up by id.

Configuration is read from, lowest precedence first: built-in defaults,
the --config CUE file, a .env file, MSGBOARD_* environment variables, and
command-line flags.`,
		Version:       ir.ContractVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(opts, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to CUE config file")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend (sqlite|badger)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "database path (file for sqlite, directory for badger)")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewExecuteCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup validates global flags, resolves configuration and installs the logger.
func setup(opts *RootOptions, cmd *cobra.Command) error {
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	cfg, err := config.Load(config.LoadOptions{
		File:    opts.ConfigFile,
		Environ: opts.Environ,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := config.Config{Backend: opts.Backend, Database: opts.Database}
	if opts.Verbose {
		flags.LogLevel = "debug"
	}
	cfg = cfg.Override(flags)
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	opts.Config = cfg

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	opts.Logger = slog.New(handler)
	slog.SetDefault(opts.Logger)

	opts.Logger.Debug("config resolved",
		"backend", cfg.Backend,
		"database", cfg.Database,
		"log_level", cfg.LogLevel,
	)
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return lo.Contains(ValidFormats, format)
}
