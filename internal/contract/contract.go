package contract

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/msgboard/internal/ir"
	"github.com/roach88/msgboard/internal/store"
)

// Attribute keys emitted by AddMessage, in emission order.
const (
	AttrAction  = "action"
	AttrID      = "message_id"
	AttrOwner   = "message_owner"
	AttrTopic   = "message_topic"
	AttrMessage = "message_message"
)

// Instantiate initializes the counter to 0.
//
// A store that already has a counter is rejected with ALREADY_INITIALIZED:
// resetting the counter would reissue ids that are already in use.
func Instantiate(tx store.Tx, _ ir.Env, _ ir.MessageInfo, _ ir.InstantiateMsg) (ir.Response, error) {
	alloc := NewAllocator(tx)

	ok, next, err := alloc.initialized()
	if err != nil {
		return ir.Response{}, err
	}
	if ok {
		return ir.Response{}, newAlreadyInitializedError(next)
	}

	if err := alloc.Init(); err != nil {
		return ir.Response{}, err
	}
	return ir.NewResponse(), nil
}

// Execute routes a state-transition request.
//
// Any returned error means the caller must abort tx; nothing the call wrote
// may be committed.
func Execute(tx store.Tx, env ir.Env, info ir.MessageInfo, msg ir.ExecuteMsg) (ir.Response, error) {
	if err := msg.Validate(); err != nil {
		return ir.Response{}, asInvalidRequest(err)
	}

	switch {
	case msg.AddMessage != nil:
		return ExecuteAddMessage(tx, info, msg.AddMessage.Topic, msg.AddMessage.Message)
	default:
		return ir.Response{}, NewInvalidRequestError(fmt.Errorf("unhandled execute variant"))
	}
}

// ExecuteAddMessage allocates an id and stores a message owned by the sender.
func ExecuteAddMessage(tx store.Tx, info ir.MessageInfo, topic, message string) (ir.Response, error) {
	id, err := NewAllocator(tx).Allocate()
	if err != nil {
		return ir.Response{}, err
	}

	msg := ir.Message{
		ID:      ir.Uint64(id),
		Owner:   info.Sender,
		Topic:   topic,
		Message: message,
	}
	if err := NewMessageStore(tx).Insert(msg); err != nil {
		return ir.Response{}, err
	}

	return ir.NewResponse().
		AddAttribute(AttrAction, ir.ActionAddMessage).
		AddAttribute(AttrID, msg.ID.String()).
		AddAttribute(AttrOwner, msg.Owner).
		AddAttribute(AttrTopic, msg.Topic).
		AddAttribute(AttrMessage, msg.Message), nil
}

// Query routes a read-only request and returns its JSON encoding.
func Query(tx store.Tx, _ ir.Env, msg ir.QueryMsg) ([]byte, error) {
	kind, err := msg.Kind()
	if err != nil {
		return nil, asInvalidRequest(err)
	}

	var result any
	switch kind {
	case ir.QueryCurrentID:
		result, err = QueryCurrentID(tx)
	case ir.QueryAll:
		result, err = QueryAllMessages(tx)
	case ir.QueryByAddr:
		result, err = QueryMessagesByAddr(tx, msg.GetMessagesByAddr.Address)
	case ir.QueryByTopic:
		result, err = QueryMessagesByTopic(tx, msg.GetMessagesByTopic.Topic)
	case ir.QueryByID:
		result, err = QueryMessagesByID(tx, uint64(msg.GetMessagesByID.ID))
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", kind, err)
	}
	return data, nil
}

// QueryCurrentID returns the next id to be allocated.
func QueryCurrentID(tx store.Tx) (ir.Uint64, error) {
	next, err := NewAllocator(tx).Current()
	if err != nil {
		return 0, err
	}
	return ir.Uint64(next), nil
}

// QueryAllMessages lists every message in ascending id order.
func QueryAllMessages(tx store.Tx) (ir.MessagesResponse, error) {
	return messagesResponse(NewMessageStore(tx).ListAll())
}

// QueryMessagesByAddr lists the messages owned by addr.
func QueryMessagesByAddr(tx store.Tx, addr string) (ir.MessagesResponse, error) {
	return messagesResponse(NewMessageStore(tx).ListByOwner(addr))
}

// QueryMessagesByTopic lists the messages posted under topic.
func QueryMessagesByTopic(tx store.Tx, topic string) (ir.MessagesResponse, error) {
	return messagesResponse(NewMessageStore(tx).ListByTopic(topic))
}

// QueryMessagesByID returns a one-element listing, or NOT_FOUND.
func QueryMessagesByID(tx store.Tx, id uint64) (ir.MessagesResponse, error) {
	msg, err := NewMessageStore(tx).Get(id)
	if err != nil {
		return ir.MessagesResponse{}, err
	}
	return ir.MessagesResponse{Messages: []ir.Message{msg}}, nil
}

func messagesResponse(msgs []ir.Message, err error) (ir.MessagesResponse, error) {
	if err != nil {
		return ir.MessagesResponse{}, err
	}
	return ir.MessagesResponse{Messages: msgs}, nil
}
