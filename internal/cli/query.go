package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/msgboard/internal/contract"
	"github.com/roach88/msgboard/internal/ir"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query-msg-json>",
		Short: "Run a read-only query",
		Long: `Run a JSON QueryMsg against the board.

Queries:
  {"get_current_id":{}}
  {"get_all_message":{}}
  {"get_messages_by_addr":{"address":"addr1"}}
  {"get_messages_by_topic":{"topic":"lol"}}
  {"get_messages_by_id":{"id":"1"}}

In JSON mode the query answer is returned verbatim as data.

Example:
  msgboard query '{"get_messages_by_topic":{"topic":"lol"}}' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	return cmd
}

func runQuery(opts *QueryOptions, raw string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	msg, err := ir.DecodeQueryMsg([]byte(raw))
	if err != nil {
		return out.Fail("query failed", contract.NewInvalidRequestError(err))
	}
	kind, _ := msg.Kind()

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return out.Fail("failed to open database", err)
	}
	defer s.Close()

	data, err := s.engine.Query(commandContext(cmd), msg)
	if err != nil {
		return out.Fail("query failed", err)
	}

	text, err := renderQuery(kind, data)
	if err != nil {
		return out.Fail("failed to render answer", err)
	}
	return out.Success(json.RawMessage(data), text)
}

// renderQuery formats a query answer for text output.
func renderQuery(kind string, data []byte) (string, error) {
	if kind == ir.QueryCurrentID {
		var id ir.Uint64
		if err := json.Unmarshal(data, &id); err != nil {
			return "", fmt.Errorf("decode current id: %w", err)
		}
		return id.String(), nil
	}

	var resp ir.MessagesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decode messages: %w", err)
	}
	return renderMessages(resp.Messages), nil
}
