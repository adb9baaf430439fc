package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRequest reports a request enum that does not carry exactly one variant.
var ErrInvalidRequest = errors.New("invalid request")

// InstantiateMsg initializes the contract. It has no parameters.
type InstantiateMsg struct{}

// ExecuteMsg is the state-transition request enum.
type ExecuteMsg struct {
	AddMessage *AddMessage `json:"add_message,omitempty"`
}

// AddMessage appends a message owned by the sender.
type AddMessage struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// Action names emitted in the "action" attribute.
const (
	ActionAddMessage = "execute_add_message"
)

// Validate checks that exactly one variant is set.
func (m ExecuteMsg) Validate() error {
	if m.AddMessage == nil {
		return fmt.Errorf("%w: execute message has no variant", ErrInvalidRequest)
	}
	return nil
}

// QueryMsg is the read-only request enum.
type QueryMsg struct {
	GetCurrentID       *GetCurrentID       `json:"get_current_id,omitempty"`
	GetAllMessage      *GetAllMessage      `json:"get_all_message,omitempty"`
	GetMessagesByAddr  *GetMessagesByAddr  `json:"get_messages_by_addr,omitempty"`
	GetMessagesByTopic *GetMessagesByTopic `json:"get_messages_by_topic,omitempty"`
	GetMessagesByID    *GetMessagesByID    `json:"get_messages_by_id,omitempty"`
}

// GetCurrentID returns the next id to be allocated.
type GetCurrentID struct{}

// GetAllMessage lists every message.
type GetAllMessage struct{}

// GetMessagesByAddr lists messages owned by Address.
type GetMessagesByAddr struct {
	Address string `json:"address"`
}

// GetMessagesByTopic lists messages with Topic.
type GetMessagesByTopic struct {
	Topic string `json:"topic"`
}

// GetMessagesByID looks up a single message.
type GetMessagesByID struct {
	ID Uint64 `json:"id"`
}

// Query kinds, as returned by QueryMsg.Kind.
const (
	QueryCurrentID = "get_current_id"
	QueryAll       = "get_all_message"
	QueryByAddr    = "get_messages_by_addr"
	QueryByTopic   = "get_messages_by_topic"
	QueryByID      = "get_messages_by_id"
)

// Kind returns the name of the single variant set on the query.
// Returns ErrInvalidRequest when zero or several variants are set.
func (q QueryMsg) Kind() (string, error) {
	var kinds []string
	if q.GetCurrentID != nil {
		kinds = append(kinds, QueryCurrentID)
	}
	if q.GetAllMessage != nil {
		kinds = append(kinds, QueryAll)
	}
	if q.GetMessagesByAddr != nil {
		kinds = append(kinds, QueryByAddr)
	}
	if q.GetMessagesByTopic != nil {
		kinds = append(kinds, QueryByTopic)
	}
	if q.GetMessagesByID != nil {
		kinds = append(kinds, QueryByID)
	}

	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("%w: query message has no variant", ErrInvalidRequest)
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("%w: query message has %d variants %v", ErrInvalidRequest, len(kinds), kinds)
	}
}

// DecodeExecuteMsg parses a JSON execute message, rejecting unknown variants.
func DecodeExecuteMsg(data []byte) (ExecuteMsg, error) {
	var msg ExecuteMsg
	if err := decodeStrict(data, &msg); err != nil {
		return ExecuteMsg{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := msg.Validate(); err != nil {
		return ExecuteMsg{}, err
	}
	return msg, nil
}

// DecodeQueryMsg parses a JSON query message, rejecting unknown variants.
func DecodeQueryMsg(data []byte) (QueryMsg, error) {
	var msg QueryMsg
	if err := decodeStrict(data, &msg); err != nil {
		return QueryMsg{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := msg.Kind(); err != nil {
		return QueryMsg{}, err
	}
	return msg, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
