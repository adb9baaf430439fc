// Package engine hosts the message board contract.
//
// The contract package is pure: it takes a store.Tx and holds no state.
// The engine supplies what a host runtime would: transactions, ordering,
// and a caller identity for each request.
//
// ARCHITECTURE:
//
// Single-Writer Loop:
// Execute requests go into a FIFO queue and Engine.Run applies them one
// at a time. Each transition:
// 1. takes the write side of the engine's RW lock
// 2. is stamped with Env{Height, TxID} from the Clock and TxIDGenerator
// 3. runs contract.Execute inside backend.Update
// 4. commits if the contract returned no error, otherwise rolls back
//
// Queries take the read side of the lock and run inside backend.View, so
// they see only committed state and never observe a transition halfway.
// Several queries may run at once.
//
// Heights come from the logical Clock and never from wall-clock time.
package engine
