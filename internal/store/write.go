package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/msgboard/internal/ir"
)

// SetCounter upserts the counter cell as an 8-byte big-endian value.
func (t *sqliteTx) SetCounter(next uint64) error {
	if t.readOnly {
		return fmt.Errorf("set counter: %w", ErrReadOnly)
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO state (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, counterKey, encodeID(next))
	if err != nil {
		return fmt.Errorf("set counter: %w", err)
	}
	return nil
}

// Insert writes a message row. There is no ON CONFLICT clause: an existing
// id is an invariant violation and surfaces as ErrDuplicateID.
func (t *sqliteTx) Insert(msg ir.Message) error {
	if t.readOnly {
		return fmt.Errorf("insert message %d: %w", msg.ID, ErrReadOnly)
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO messages (id, owner, topic, body)
		VALUES (?, ?, ?, ?)
	`,
		encodeID(uint64(msg.ID)),
		msg.Owner,
		msg.Topic,
		msg.Message,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && isKeyConflict(sqliteErr) {
			return fmt.Errorf("insert message %d: %w", msg.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert message %d: %w", msg.ID, err)
	}
	return nil
}

// isKeyConflict reports whether err is a primary key or unique violation.
func isKeyConflict(err sqlite3.Error) bool {
	return err.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		err.ExtendedCode == sqlite3.ErrConstraintUnique
}
