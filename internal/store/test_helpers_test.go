package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/msgboard/internal/ir"
)

// createTestStore creates a new on-disk SQLite store for testing.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachBackend runs fn once per backend kind against a fresh on-disk store.
func forEachBackend(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Helper()
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store")
			if kind == KindSQLite {
				path += ".db"
			}
			b, err := Open(kind, path)
			if err != nil {
				t.Fatalf("Open(%s) failed: %v", kind, err)
			}
			t.Cleanup(func() { b.Close() })
			fn(t, b)
		})
	}
}

// createTestMessage creates a message with the given id and owner/topic.
func createTestMessage(id uint64, owner, topic string) ir.Message {
	return ir.Message{
		ID:      ir.Uint64(id),
		Owner:   owner,
		Topic:   topic,
		Message: "body",
	}
}

// mustInsert inserts messages in one committed transaction.
func mustInsert(t *testing.T, b Backend, msgs ...ir.Message) {
	t.Helper()
	err := b.Update(context.Background(), func(tx Tx) error {
		for _, m := range msgs {
			if err := tx.Insert(m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
}

// readAll collects every message through a View scan.
func readAll(t *testing.T, b Backend) []ir.Message {
	t.Helper()
	var out []ir.Message
	err := b.View(context.Background(), func(tx Tx) error {
		return tx.Scan(func(m ir.Message) error {
			out = append(out, m)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return out
}
