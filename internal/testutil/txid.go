package testutil

import (
	"fmt"
	"sync"
)

// DefaultTxPrefix is the prefix used when NewTxIDSequence is given "".
const DefaultTxPrefix = "tx"

// TxIDSequence generates deterministic transaction ids: tx-1, tx-2, ...
//
// Unlike engine.FixedGenerator it never runs out, and it can be reset so
// the same scenario run twice yields byte-identical traces.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type TxIDSequence struct {
	mu     sync.Mutex
	prefix string
	n      uint64
}

// NewTxIDSequence creates a sequence whose first id is prefix-1.
func NewTxIDSequence(prefix string) *TxIDSequence {
	if prefix == "" {
		prefix = DefaultTxPrefix
	}
	return &TxIDSequence{prefix: prefix}
}

// Generate returns the next id.
//
// Implements engine.TxIDGenerator.
func (s *TxIDSequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// Count returns how many ids have been generated.
func (s *TxIDSequence) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Reset restarts the sequence at prefix-1.
func (s *TxIDSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
