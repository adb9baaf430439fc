package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/msgboard/internal/ir"
)

// renderResponse prints transition attributes one key=value per line.
func renderResponse(res ir.Response) string {
	if len(res.Attributes) == 0 {
		return "ok"
	}
	return strings.Join(lo.Map(res.Attributes, func(a ir.Attribute, _ int) string {
		return a.Key + "=" + a.Value
	}), "\n")
}

// renderMessages prints one message per line: id, owner, topic, body.
func renderMessages(msgs []ir.Message) string {
	if len(msgs) == 0 {
		return "(no messages)"
	}
	return strings.Join(lo.Map(msgs, func(m ir.Message, _ int) string {
		return fmt.Sprintf("%d\t%s\t%s\t%s", m.ID, m.Owner, m.Topic, m.Message)
	}), "\n")
}
