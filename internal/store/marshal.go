package store

import (
	"encoding/binary"
	"fmt"

	"github.com/roach88/msgboard/internal/ir"
)

// counterKey names the counter cell on both backends.
const counterKey = "current_id"

// messagePrefix namespaces message keys on Badger.
var messagePrefix = []byte("messages/")

// encodeID converts an id to its 8-byte big-endian key.
func encodeID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

// decodeID is the inverse of encodeID.
func decodeID(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: id key has %d bytes, want 8", ErrCorrupt, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// messageKey returns the Badger key for id.
func messageKey(id uint64) []byte {
	key := make([]byte, 0, len(messagePrefix)+8)
	key = append(key, messagePrefix...)
	return append(key, encodeID(id)...)
}

// marshalMessage encodes a message value for Badger: the 8-byte id
// followed by owner, topic and body, each as a uvarint length and the raw
// bytes. Strings are stored byte for byte, valid UTF-8 or not.
func marshalMessage(msg ir.Message) []byte {
	buf := make([]byte, 0, 8+3*binary.MaxVarintLen64+len(msg.Owner)+len(msg.Topic)+len(msg.Message))
	buf = append(buf, encodeID(uint64(msg.ID))...)
	for _, field := range []string{msg.Owner, msg.Topic, msg.Message} {
		buf = binary.AppendUvarint(buf, uint64(len(field)))
		buf = append(buf, field...)
	}
	return buf
}

// unmarshalMessage decodes a Badger value and checks it against its key.
func unmarshalMessage(key, value []byte) (ir.Message, error) {
	id, err := decodeID(key[len(messagePrefix):])
	if err != nil {
		return ir.Message{}, err
	}
	if len(value) < 8 {
		return ir.Message{}, fmt.Errorf("%w: message %d value has %d bytes", ErrCorrupt, id, len(value))
	}
	stored, _ := decodeID(value[:8])
	if stored != id {
		return ir.Message{}, fmt.Errorf("%w: message under key %d has id %d", ErrCorrupt, id, stored)
	}

	rest := value[8:]
	var fields [3]string
	for i := range fields {
		n, size := binary.Uvarint(rest)
		if size <= 0 || n > uint64(len(rest)-size) {
			return ir.Message{}, fmt.Errorf("%w: message %d value truncated", ErrCorrupt, id)
		}
		rest = rest[size:]
		fields[i] = string(rest[:n])
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return ir.Message{}, fmt.Errorf("%w: message %d value has %d trailing bytes", ErrCorrupt, id, len(rest))
	}

	return ir.Message{ID: ir.Uint64(id), Owner: fields[0], Topic: fields[1], Message: fields[2]}, nil
}
