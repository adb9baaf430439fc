package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/msgboard/internal/store"
)

// OpenMemory opens an in-memory backend of kind, closed when t ends.
func OpenMemory(t testing.TB, kind store.Kind) store.Backend {
	t.Helper()
	b, err := store.Open(kind, store.MemoryPath)
	if err != nil {
		t.Fatalf("open in-memory %s backend: %v", kind, err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// OpenTemp opens an on-disk backend of kind under t.TempDir().
// It returns the path so tests can reopen it.
func OpenTemp(t testing.TB, kind store.Kind) (store.Backend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msgboard")
	if kind == store.KindSQLite {
		path += ".db"
	}
	b, err := store.Open(kind, path)
	if err != nil {
		t.Fatalf("open %s backend at %s: %v", kind, path, err)
	}
	t.Cleanup(func() { b.Close() })
	return b, path
}

// ForEachBackend runs fn as a subtest against a fresh in-memory backend of
// every kind.
func ForEachBackend(t *testing.T, fn func(t *testing.T, b store.Backend)) {
	t.Helper()
	for _, kind := range store.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			fn(t, OpenMemory(t, kind))
		})
	}
}
