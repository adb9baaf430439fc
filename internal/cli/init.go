package cli

import (
	"github.com/spf13/cobra"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Sender string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a message board",
		Long: `Initialize a message board, creating the database if needed.

The id counter is set to 0. Initializing a board that already has a
counter fails with ALREADY_INITIALIZED.

Example:
  msgboard init --sender admin --db ./board.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initBoard(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Sender, "sender", "", "caller identity (required)")
	_ = cmd.MarkFlagRequired("sender")

	return cmd
}

func initBoard(opts *InitOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return out.Fail("failed to open database", err)
	}
	defer s.Close()

	res, err := s.engine.Instantiate(commandContext(cmd), opts.Sender)
	if err != nil {
		return out.Fail("init failed", err)
	}

	out.VerboseLog("initialized %s database at %s", opts.Config.Backend, opts.Config.Database)
	return out.Success(res, "initialized")
}
