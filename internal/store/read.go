package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/msgboard/internal/ir"
)

// Counter returns the persisted next id.
// Returns ErrNotFound if the counter cell was never written.
func (t *sqliteTx) Counter() (uint64, error) {
	var raw []byte
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT value FROM state WHERE key = ?
	`, counterKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read counter: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}

	next, err := decodeID(raw)
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return next, nil
}

// Get retrieves a single message by id.
// Returns ErrNotFound if no row exists.
func (t *sqliteTx) Get(id uint64) (ir.Message, error) {
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT id, owner, topic, body
		FROM messages
		WHERE id = ?
	`, encodeID(id))

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Message{}, fmt.Errorf("read message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Message{}, fmt.Errorf("read message %d: %w", id, err)
	}
	return msg, nil
}

// Scan streams every message in ascending id order.
// BLOB keys compare with memcmp, so ORDER BY id is numeric order.
func (t *sqliteTx) Scan(fn func(ir.Message) error) error {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT id, owner, topic, body
		FROM messages
		ORDER BY id ASC
	`)
	if err != nil {
		return fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return fmt.Errorf("scan message: %w", err)
		}
		if err := fn(msg); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate messages: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMessage scans one row into a Message.
func scanMessage(row rowScanner) (ir.Message, error) {
	var rawID []byte
	var msg ir.Message
	if err := row.Scan(&rawID, &msg.Owner, &msg.Topic, &msg.Message); err != nil {
		return ir.Message{}, err
	}

	id, err := decodeID(rawID)
	if err != nil {
		return ir.Message{}, err
	}
	msg.ID = ir.Uint64(id)
	return msg, nil
}
