package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/msgboard/internal/ir"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Sender  string
	Topic   string
	Message string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a message",
		Long: `Add a message owned by the sender.

The message gets the next id. Topic and message are stored verbatim and
may be empty.

Example:
  msgboard add --sender addr1 --topic lol --message wut`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := ir.ExecuteMsg{AddMessage: &ir.AddMessage{
				Topic:   opts.Topic,
				Message: opts.Message,
			}}
			return executeMsg(opts.RootOptions, cmd, opts.Sender, func(s *session) (ir.Response, error) {
				return s.engine.Execute(commandContext(cmd), opts.Sender, msg)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Sender, "sender", "", "caller identity (required)")
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "message topic")
	cmd.Flags().StringVar(&opts.Message, "message", "", "message body")
	_ = cmd.MarkFlagRequired("sender")

	return cmd
}

// ExecuteOptions holds flags for the execute command.
type ExecuteOptions struct {
	*RootOptions
	Sender string
}

// NewExecuteCommand creates the execute command.
func NewExecuteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecuteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "execute <execute-msg-json>",
		Short: "Execute a raw state-transition request",
		Long: `Execute a JSON ExecuteMsg as the sender.

The request must carry exactly one variant; anything else fails with
INVALID_REQUEST.

Example:
  msgboard execute '{"add_message":{"topic":"lol","message":"wut"}}' --sender addr1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeMsg(opts.RootOptions, cmd, opts.Sender, func(s *session) (ir.Response, error) {
				return s.engine.ExecuteRaw(commandContext(cmd), opts.Sender, []byte(args[0]))
			})
		},
	}

	cmd.Flags().StringVar(&opts.Sender, "sender", "", "caller identity (required)")
	_ = cmd.MarkFlagRequired("sender")

	return cmd
}

// executeMsg opens a session, starts the engine loop, runs submit and
// prints the transition's attributes.
func executeMsg(opts *RootOptions, cmd *cobra.Command, sender string, submit func(*session) (ir.Response, error)) error {
	out := opts.formatter(cmd)

	s, err := openSession(opts)
	if err != nil {
		return out.Fail("failed to open database", err)
	}
	defer s.Close()
	s.start(commandContext(cmd))

	res, err := submit(s)
	if err != nil {
		return out.Fail("execute failed", err)
	}

	out.VerboseLog("executed as %s", sender)
	return out.Success(res, renderResponse(res))
}
