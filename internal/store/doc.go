// Package store provides the durable ordered key-value substrate for msgboard.
//
// The store holds two logical regions:
//   - Counter cell: the next identifier to allocate (key "current_id")
//   - Message region: id -> Message, keyed by the 8-byte big-endian id
//
// # Critical Patterns
//
// Ordered keys:
//   - Ids are encoded big-endian so byte order equals numeric order
//   - Every scan returns messages in ascending id order
//
// Atomic transitions:
//   - Backend.Update runs its callback in one transaction
//   - A callback error rolls back every write made inside it
//
// Append-only:
//   - Tx.Insert never overwrites; an existing key fails with ErrDuplicateID
//   - There is no delete or update path
//
// # Backends
//
//   - SQLite (github.com/mattn/go-sqlite3): WAL mode, synchronous=NORMAL,
//     busy_timeout=5000, one open connection
//   - Badger (github.com/dgraph-io/badger/v4): on-disk or in-memory LSM store
//
// Both backends accept MemoryPath (":memory:") for a throwaway store.
package store
