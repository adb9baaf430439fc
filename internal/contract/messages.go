package contract

import (
	"errors"
	"fmt"

	"github.com/roach88/msgboard/internal/ir"
	"github.com/roach88/msgboard/internal/store"
)

// MessageStore is the ordered id -> Message region.
//
// Listings are full scans in ascending id order with the filter applied as
// rows stream past. There is no secondary index on owner or topic.
type MessageStore struct {
	tx store.Tx
}

// NewMessageStore binds a MessageStore to tx.
func NewMessageStore(tx store.Tx) MessageStore {
	return MessageStore{tx: tx}
}

// Insert writes msg under msg.ID. An existing id is never overwritten.
func (s MessageStore) Insert(msg ir.Message) error {
	err := s.tx.Insert(msg)
	if errors.Is(err, store.ErrDuplicateID) {
		return NewDuplicateIDError(uint64(msg.ID))
	}
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Get returns the message with id, or a NOT_FOUND error.
func (s MessageStore) Get(id uint64) (ir.Message, error) {
	msg, err := s.tx.Get(id)
	if isStoreNotFound(err) {
		return ir.Message{}, NewNotFoundError(id)
	}
	if err != nil {
		return ir.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// ListAll returns every message.
func (s MessageStore) ListAll() ([]ir.Message, error) {
	return s.list(func(ir.Message) bool { return true })
}

// ListByOwner returns messages whose owner equals owner byte for byte.
func (s MessageStore) ListByOwner(owner string) ([]ir.Message, error) {
	return s.list(func(m ir.Message) bool { return m.Owner == owner })
}

// ListByTopic returns messages whose topic equals topic byte for byte.
func (s MessageStore) ListByTopic(topic string) ([]ir.Message, error) {
	return s.list(func(m ir.Message) bool { return m.Topic == topic })
}

// list scans the region and keeps messages matching keep.
// The result is never nil.
func (s MessageStore) list(keep func(ir.Message) bool) ([]ir.Message, error) {
	out := []ir.Message{}
	err := s.tx.Scan(func(m ir.Message) error {
		if keep(m) {
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}
