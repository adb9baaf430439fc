//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=../mocks/mock_store.go -package=mocks
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/msgboard/internal/ir"
)

var (
	// ErrNotFound is returned when a key has no record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when Insert targets an existing id.
	ErrDuplicateID = errors.New("duplicate message id")

	// ErrReadOnly is returned by write methods inside View.
	ErrReadOnly = errors.New("read-only transaction")

	// ErrCorrupt is returned when a persisted value cannot be decoded.
	ErrCorrupt = errors.New("corrupt record")
)

// MemoryPath opens a non-durable store on either backend.
const MemoryPath = ":memory:"

// Kind names a backend implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBadger Kind = "badger"
)

// Kinds lists the supported backends.
var Kinds = []Kind{KindSQLite, KindBadger}

// Tx is the persistent-state handle passed to every contract operation.
//
// A Tx is only valid inside the Update or View callback that produced it.
type Tx interface {
	// Counter returns the persisted next id, or ErrNotFound if it was never set.
	Counter() (uint64, error)

	// SetCounter persists the next id.
	SetCounter(next uint64) error

	// Insert writes msg keyed by msg.ID. Fails with ErrDuplicateID if the key exists.
	Insert(msg ir.Message) error

	// Get returns the message with id, or ErrNotFound.
	Get(id uint64) (ir.Message, error)

	// Scan calls fn for every message in ascending id order.
	// An error from fn stops the scan and is returned unchanged.
	Scan(fn func(ir.Message) error) error
}

// Backend is a transactional ordered key-value store.
type Backend interface {
	// Update runs fn in a read-write transaction. The transaction commits
	// only if fn returns nil.
	Update(ctx context.Context, fn func(Tx) error) error

	// View runs fn against a committed snapshot. Write methods fail with ErrReadOnly.
	View(ctx context.Context, fn func(Tx) error) error

	// Close releases the underlying database.
	Close() error
}

// Open opens the backend of the given kind at path.
func Open(kind Kind, path string) (Backend, error) {
	switch kind {
	case KindSQLite:
		return OpenSQLite(path)
	case KindBadger:
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of %v", kind, Kinds)
	}
}
