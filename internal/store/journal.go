package store

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/zordinals/zord-indexer/common/errs"
)

// UndoEntry records the prior state of one key so a block's effects can be
// replayed in reverse.
type UndoEntry struct {
	Key     []byte `cbor:"1,keyasint"`
	Value   []byte `cbor:"2,keyasint"`
	Existed bool   `cbor:"3,keyasint"`
}

var undoTable = NewTable[Uint64Pair, UndoEntry]("undo", Uint64PairKey{})

// Journal captures undo entries for every journaled mutation within one
// block's write transaction. Entries are ordered by sequence number; revert
// replays them newest first.
type Journal struct {
	txn    *WriteTxn
	height uint64
	seq    uint64
}

func NewJournal(txn *WriteTxn, height uint64) *Journal {
	return &Journal{txn: txn, height: height}
}

func (j *Journal) Txn() *WriteTxn { return j.txn }

func (j *Journal) Height() uint64 { return j.height }

func (j *Journal) capture(rawKey []byte) error {
	entry := UndoEntry{Key: rawKey}
	prev, closer, err := j.txn.get(rawKey)
	switch {
	case err == nil:
		entry.Value = append([]byte{}, prev...)
		entry.Existed = true
		_ = closer.Close()
	case errors.Is(err, pebble.ErrNotFound):
	default:
		return errors.Wrap(err, "failed to read prior value for undo")
	}
	if err := undoTable.Insert(j.txn, Uint64Pair{A: j.height, B: j.seq}, entry); err != nil {
		return err
	}
	j.seq++
	return nil
}

// JournalInsert writes k=v after recording the key's prior state.
func JournalInsert[K any, V any](j *Journal, t Table[K, V], k K, v V) error {
	if err := j.capture(t.rawKey(k)); err != nil {
		return err
	}
	return t.Insert(j.txn, k, v)
}

// JournalRemove deletes k after recording the key's prior state.
func JournalRemove[K any, V any](j *Journal, t Table[K, V], k K) error {
	if err := j.capture(t.rawKey(k)); err != nil {
		return err
	}
	return t.Remove(j.txn, k)
}

// RevertBlock replays height's undo entries newest-first, restoring every
// journaled key to its prior state, then drops the journal for that height.
func RevertBlock(txn *WriteTxn, height uint64) error {
	heightPrefix := Uint64Key{}.EncodeKey(height)

	// Collect first: mutating an indexed batch invalidates its iterators.
	var keys []Uint64Pair
	var entries []UndoEntry
	err := undoTable.Iterate(txn, IterOptions[Uint64Pair]{Prefix: heightPrefix, Reverse: true}, func(k Uint64Pair, e UndoEntry) (bool, error) {
		if k.A != height {
			return false, errors.Wrapf(errs.InvariantViolated, "undo journal key height mismatch: %d != %d", k.A, height)
		}
		keys = append(keys, k)
		entries = append(entries, e)
		return true, nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to read undo journal for block %d", height)
	}
	for i, e := range entries {
		if e.Existed {
			err = txn.set(e.Key, e.Value)
		} else {
			err = txn.delete(e.Key)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to revert block %d", height)
		}
		if err := undoTable.Remove(txn, keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// PruneJournal drops undo entries for all heights below the given height.
func PruneJournal(txn *WriteTxn, belowHeight uint64) error {
	var keys []Uint64Pair
	err := undoTable.Iterate(txn, IterOptions[Uint64Pair]{}, func(k Uint64Pair, _ UndoEntry) (bool, error) {
		if k.A >= belowHeight {
			return false, nil
		}
		keys = append(keys, k)
		return true, nil
	})
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := undoTable.Remove(txn, k); err != nil {
			return err
		}
	}
	return nil
}
