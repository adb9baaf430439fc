// Package contract implements the message board state machine.
//
// Three entry points mirror the host interface: Instantiate sets the id
// counter, Execute applies a transition, and Query reads committed state.
// Each takes an explicit store.Tx; the package holds no state of its own and
// does no locking. The host is responsible for running each Execute in its
// own transaction and rolling it back when an error is returned.
//
// # Components
//
//   - Allocator owns the counter cell holding the next id.
//   - MessageStore owns the ordered id -> Message region.
//
// # Errors
//
// Failures are reported as *Error with a stable Code. Use CodeOf,
// IsNotFound, or IsCounterOverflow to inspect them through wrapping.
package contract
