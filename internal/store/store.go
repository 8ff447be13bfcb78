package store

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"

	"github.com/zordinals/zord-indexer/common/errs"
)

// Store is a pebble-backed key-value store with typed tables on top. All
// mutations go through a WriteTxn so that a block's effects land in a single
// atomic, durable batch.
type Store struct {
	db *pebble.DB

	// writeMu serializes write transactions. Held from Begin until the
	// transaction commits or aborts.
	writeMu sync.Mutex
}

func defaultOptions() *pebble.Options {
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(512 << 20),
		MaxOpenFiles:                10000,
		MemTableSize:                64 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       6,
		L0StopWritesThreshold:       12,
		LBaseMaxBytes:               1 << 30,
	}
	opts.Levels = make([]pebble.LevelOptions, 7)
	for i := range opts.Levels {
		opts.Levels[i] = pebble.LevelOptions{
			TargetFileSize: 128 << 20,
			BlockSize:      8 << 10,
			FilterPolicy:   bloom.FilterPolicy(10),
			FilterType:     pebble.TableFilter,
		}
	}
	return opts
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "store path is empty")
	}
	db, err := pebble.Open(path, defaultOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open pebble db at %q", path)
	}
	return &Store{db: db}, nil
}

// Begin starts a write transaction. Only one write transaction may be open at
// a time; Begin blocks until the previous one finishes.
func (s *Store) Begin() *WriteTxn {
	s.writeMu.Lock()
	return &WriteTxn{
		store: s,
		batch: s.db.NewIndexedBatch(),
	}
}

// View opens a read transaction over a consistent snapshot. The caller must
// Close it.
func (s *Store) View() *ReadTxn {
	return &ReadTxn{snap: s.db.NewSnapshot()}
}

func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "failed to close pebble db")
}
