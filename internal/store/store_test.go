package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"state", "messages"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_NewerSchemaRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	s.Close()

	if _, err := OpenSQLite(path); err == nil {
		t.Error("expected error for newer schema version, got nil")
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(Kind("leveldb"), "x"); err == nil {
		t.Error("expected error for unknown backend, got nil")
	}
}

func TestOpen_MemoryBackends(t *testing.T) {
	for _, kind := range Kinds {
		b, err := Open(kind, MemoryPath)
		if err != nil {
			t.Fatalf("Open(%s, memory) failed: %v", kind, err)
		}
		if err := b.Close(); err != nil {
			t.Errorf("Close(%s) failed: %v", kind, err)
		}
	}
}

func TestClose_NilDB(t *testing.T) {
	if err := (&SQLite{db: nil}).Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
	if err := (&Badger{db: nil}).Close(); err != nil {
		t.Errorf("Close() on nil badger should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

// Pragma tests

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_Synchronous(t *testing.T) {
	s := createTestStore(t)
	// NORMAL = 1
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestPragma_UserVersion(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

// Schema table tests

func TestSchema_MessagesTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "messages")
	for _, col := range []string{"id", "owner", "topic", "body"} {
		if !contains(columns, col) {
			t.Errorf("messages table missing column %q", col)
		}
	}
}

func TestSchema_StateTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "state")
	for _, col := range []string{"key", "value"} {
		if !contains(columns, col) {
			t.Errorf("state table missing column %q", col)
		}
	}
}

func TestSchema_RejectsShortID(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO messages (id, owner, topic, body) VALUES (x'01', 'a', 'b', 'c')`)
	if err == nil {
		t.Error("expected CHECK constraint failure for 1-byte id")
	}
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
