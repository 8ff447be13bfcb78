package store

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/zordinals/zord-indexer/common/errs"
)

// Reader is the read half shared by ReadTxn and WriteTxn. A WriteTxn reads
// through its own uncommitted writes.
type Reader interface {
	get(key []byte) ([]byte, io.Closer, error)
	newIter(opts *pebble.IterOptions) (*pebble.Iterator, error)
}

// WriteTxn is an indexed batch: reads observe earlier writes in the same
// transaction. Commit makes the batch durable with a synced WAL write.
type WriteTxn struct {
	store *Store
	batch *pebble.Batch
	done  bool
}

func (t *WriteTxn) get(key []byte) ([]byte, io.Closer, error) {
	return t.batch.Get(key)
}

func (t *WriteTxn) newIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	it, err := t.batch.NewIter(opts)
	return it, errors.WithStack(err)
}

func (t *WriteTxn) set(key, value []byte) error {
	if t.done {
		return errors.Wrap(errs.Closed, "write txn already finished")
	}
	return errors.WithStack(t.batch.Set(key, value, nil))
}

func (t *WriteTxn) delete(key []byte) error {
	if t.done {
		return errors.Wrap(errs.Closed, "write txn already finished")
	}
	return errors.WithStack(t.batch.Delete(key, nil))
}

// Commit atomically applies and fsyncs the whole batch.
func (t *WriteTxn) Commit() error {
	if t.done {
		return errors.Wrap(errs.Closed, "write txn already finished")
	}
	t.done = true
	defer t.store.writeMu.Unlock()
	if err := t.batch.Commit(pebble.Sync); err != nil {
		return errors.Wrap(err, "failed to commit batch")
	}
	return errors.WithStack(t.batch.Close())
}

// Close aborts the transaction if it has not been committed. Safe to defer
// alongside Commit.
func (t *WriteTxn) Close() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.store.writeMu.Unlock()
	return errors.WithStack(t.batch.Close())
}

// ReadTxn reads from a point-in-time snapshot of the store.
type ReadTxn struct {
	snap *pebble.Snapshot
}

func (t *ReadTxn) get(key []byte) ([]byte, io.Closer, error) {
	return t.snap.Get(key)
}

func (t *ReadTxn) newIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	it, err := t.snap.NewIter(opts)
	return it, errors.WithStack(err)
}

func (t *ReadTxn) Close() error {
	return errors.WithStack(t.snap.Close())
}
