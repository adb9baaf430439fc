package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/roach88/msgboard/internal/ir"
)

// Badger is the BadgerDB-backed Backend.
//
// Message keys are "messages/" followed by the 8-byte big-endian id, so a
// prefix iteration yields ascending ids without sorting.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens a Badger database in the directory at path.
// An empty path or MemoryPath opens an in-memory database.
func OpenBadger(path string) (*Badger, error) {
	var opts badger.Options
	if path == "" || path == MemoryPath {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &Badger{db: db}, nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Update runs fn in a read-write Badger transaction.
// Badger discards the transaction if fn returns an error.
func (b *Badger) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

// View runs fn against a read-only snapshot.
func (b *Badger) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

// badgerTx implements Tx on a Badger transaction.
type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Counter() (uint64, error) {
	item, err := t.txn.Get([]byte(counterKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("read counter: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}

	raw, err := item.ValueCopy(nil)
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	next, err := decodeID(raw)
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return next, nil
}

func (t *badgerTx) SetCounter(next uint64) error {
	if err := t.txn.Set([]byte(counterKey), encodeID(next)); err != nil {
		return fmt.Errorf("set counter: %w", mapWriteErr(err))
	}
	return nil
}

func (t *badgerTx) Insert(msg ir.Message) error {
	key := messageKey(uint64(msg.ID))

	_, err := t.txn.Get(key)
	switch {
	case err == nil:
		return fmt.Errorf("insert message %d: %w", msg.ID, ErrDuplicateID)
	case !errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("insert message %d: %w", msg.ID, err)
	}

	if err := t.txn.Set(key, marshalMessage(msg)); err != nil {
		return fmt.Errorf("insert message %d: %w", msg.ID, mapWriteErr(err))
	}
	return nil
}

func (t *badgerTx) Get(id uint64) (ir.Message, error) {
	key := messageKey(id)
	item, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ir.Message{}, fmt.Errorf("read message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Message{}, fmt.Errorf("read message %d: %w", id, err)
	}

	var msg ir.Message
	err = item.Value(func(value []byte) error {
		msg, err = unmarshalMessage(key, value)
		return err
	})
	if err != nil {
		return ir.Message{}, fmt.Errorf("read message %d: %w", id, err)
	}
	return msg, nil
}

func (t *badgerTx) Scan(fn func(ir.Message) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = messagePrefix
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(messagePrefix); it.ValidForPrefix(messagePrefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)

		var msg ir.Message
		err := item.Value(func(value []byte) error {
			var err error
			msg, err = unmarshalMessage(key, value)
			return err
		})
		if err != nil {
			return fmt.Errorf("scan message: %w", err)
		}

		if err := fn(msg); err != nil {
			return err
		}
	}
	return nil
}

// mapWriteErr translates Badger's read-only error into ErrReadOnly.
func mapWriteErr(err error) error {
	if errors.Is(err, badger.ErrReadOnlyTxn) {
		return ErrReadOnly
	}
	return err
}
