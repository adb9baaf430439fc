package contract

import (
	"fmt"
	"math"

	"github.com/roach88/msgboard/internal/store"
)

// Allocator issues message ids from the persisted counter cell.
//
// The cell holds the next id to issue. Ids are handed out in order starting
// at 0 and are never reused. All writes go through the caller's Tx, so an
// allocation commits or rolls back with the rest of the transition.
type Allocator struct {
	tx store.Tx
}

// NewAllocator binds an Allocator to tx.
func NewAllocator(tx store.Tx) Allocator {
	return Allocator{tx: tx}
}

// Init sets the counter to 0.
func (a Allocator) Init() error {
	if err := a.tx.SetCounter(0); err != nil {
		return fmt.Errorf("init counter: %w", err)
	}
	return nil
}

// Current returns the next id without advancing it.
// Returns a NOT_INITIALIZED error if Init never ran.
func (a Allocator) Current() (uint64, error) {
	next, err := a.tx.Counter()
	if isStoreNotFound(err) {
		return 0, newNotInitializedError()
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return next, nil
}

// Allocate returns the current id and persists its successor.
//
// When the counter is at math.MaxUint64 the successor is not representable;
// Allocate returns COUNTER_OVERFLOW and writes nothing.
func (a Allocator) Allocate() (uint64, error) {
	id, err := a.Current()
	if err != nil {
		return 0, err
	}
	if id == math.MaxUint64 {
		return 0, NewCounterOverflowError(id)
	}
	if err := a.tx.SetCounter(id + 1); err != nil {
		return 0, fmt.Errorf("advance counter: %w", err)
	}
	return id, nil
}

// initialized reports whether the counter cell exists.
func (a Allocator) initialized() (bool, uint64, error) {
	next, err := a.tx.Counter()
	if isStoreNotFound(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("read counter: %w", err)
	}
	return true, next, nil
}
