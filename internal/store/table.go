package store

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/zordinals/zord-indexer/common/errs"
)

// Table is a typed view over a named keyspace. Keys are encoded by the key
// codec, values as canonical CBOR.
type Table[K any, V any] struct {
	name  string
	codec KeyCodec[K]
}

func NewTable[K any, V any](name string, codec KeyCodec[K]) Table[K, V] {
	return Table[K, V]{name: name, codec: codec}
}

func (t Table[K, V]) Name() string { return t.name }

func (t Table[K, V]) rawKey(k K) []byte {
	enc := t.codec.EncodeKey(k)
	out := make([]byte, 0, len(t.name)+1+len(enc))
	out = append(out, t.name...)
	out = append(out, 0)
	return append(out, enc...)
}

func (t Table[K, V]) tablePrefix() []byte {
	out := make([]byte, 0, len(t.name)+1)
	out = append(out, t.name...)
	return append(out, 0)
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil if the prefix is all 0xFF.
func prefixUpperBound(prefix []byte) []byte {
	out := append([]byte{}, prefix...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}

func (t Table[K, V]) Get(r Reader, k K) (V, error) {
	var v V
	raw, closer, err := r.get(t.rawKey(k))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return v, errors.Wrapf(errs.NotFound, "%s: key not found", t.name)
		}
		return v, errors.Wrapf(err, "%s: get failed", t.name)
	}
	defer closer.Close()
	if err := cborDec.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrapf(err, "%s: failed to decode value", t.name)
	}
	return v, nil
}

func (t Table[K, V]) Has(r Reader, k K) (bool, error) {
	_, closer, err := r.get(t.rawKey(k))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrapf(err, "%s: get failed", t.name)
	}
	_ = closer.Close()
	return true, nil
}

func (t Table[K, V]) Insert(w *WriteTxn, k K, v V) error {
	raw, err := cborEnc.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to encode value", t.name)
	}
	return errors.Wrapf(w.set(t.rawKey(k), raw), "%s: set failed", t.name)
}

func (t Table[K, V]) Remove(w *WriteTxn, k K) error {
	return errors.Wrapf(w.delete(t.rawKey(k)), "%s: delete failed", t.name)
}

// IterOptions bounds an iteration within the table keyspace. Prefix is a raw
// key-component prefix (already codec-encoded); Start resumes after the given
// key, exclusive.
type IterOptions[K any] struct {
	Prefix  []byte
	Start   *K
	Reverse bool
}

// Iterate walks entries in key order, calling fn until it returns false or an
// error.
func (t Table[K, V]) Iterate(r Reader, o IterOptions[K], fn func(k K, v V) (bool, error)) error {
	lower := t.tablePrefix()
	if len(o.Prefix) > 0 {
		lower = append(lower, o.Prefix...)
	}
	upper := prefixUpperBound(lower)

	it, err := r.newIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return errors.Wrapf(err, "%s: failed to open iterator", t.name)
	}
	defer it.Close()

	var ok bool
	if o.Reverse {
		if o.Start != nil {
			ok = it.SeekLT(t.rawKey(*o.Start))
		} else {
			ok = it.Last()
		}
	} else {
		if o.Start != nil {
			start := t.rawKey(*o.Start)
			ok = it.SeekGE(append(start, 0))
		} else {
			ok = it.First()
		}
	}

	tableLen := len(t.name) + 1
	for ; ok; ok = t.advance(it, o.Reverse) {
		k, err := t.codec.DecodeKey(it.Key()[tableLen:])
		if err != nil {
			return errors.Wrapf(err, "%s: failed to decode key", t.name)
		}
		var v V
		if err := cborDec.Unmarshal(it.Value(), &v); err != nil {
			return errors.Wrapf(err, "%s: failed to decode value", t.name)
		}
		cont, err := fn(k, v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return errors.Wrapf(it.Error(), "%s: iterator failed", t.name)
}

func (t Table[K, V]) advance(it *pebble.Iterator, reverse bool) bool {
	if reverse {
		return it.Prev()
	}
	return it.Next()
}

// Entry is one key-value pair returned by Paginate.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// Paginate collects up to limit entries and reports whether more remain.
func (t Table[K, V]) Paginate(r Reader, o IterOptions[K], limit int) ([]Entry[K, V], bool, error) {
	if limit <= 0 {
		return nil, false, errors.Wrap(errs.InvalidArgument, "limit must be positive")
	}
	entries := make([]Entry[K, V], 0, limit)
	hasMore := false
	err := t.Iterate(r, o, func(k K, v V) (bool, error) {
		if len(entries) == limit {
			hasMore = true
			return false, nil
		}
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
		return true, nil
	})
	if err != nil {
		return nil, false, err
	}
	return entries, hasMore, nil
}

// Count walks the table (optionally a prefix) and returns the entry count.
func (t Table[K, V]) Count(r Reader, prefix []byte) (uint64, error) {
	var n uint64
	err := t.Iterate(r, IterOptions[K]{Prefix: prefix}, func(K, V) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}
