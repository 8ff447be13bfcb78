package store

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/common/errs"
)

type testRecord struct {
	Owner  string `cbor:"1,keyasint"`
	Amount uint64 `cbor:"2,keyasint"`
}

var testTable = NewTable[string, testRecord]("test_records", StringKey{})

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestTableRoundTrip(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	require.NoError(t, testTable.Insert(txn, "alpha", testRecord{Owner: "t1abc", Amount: 10}))
	require.NoError(t, txn.Commit())

	v := s.View()
	defer v.Close()

	got, err := testTable.Get(v, "alpha")
	require.NoError(t, err)
	assert.Equal(t, testRecord{Owner: "t1abc", Amount: 10}, got)

	ok, err := testTable.Has(v, "alpha")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = testTable.Get(v, "missing")
	assert.True(t, errors.Is(err, errs.NotFound))

	ok, err = testTable.Has(v, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteTxnReadsOwnWrites(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	defer txn.Close()

	require.NoError(t, testTable.Insert(txn, "alpha", testRecord{Amount: 1}))

	got, err := testTable.Get(txn, "alpha")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Amount)

	require.NoError(t, testTable.Remove(txn, "alpha"))
	_, err = testTable.Get(txn, "alpha")
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestSnapshotIsolation(t *testing.T) {
	s := openTestStore(t)

	v := s.View()
	defer v.Close()

	txn := s.Begin()
	require.NoError(t, testTable.Insert(txn, "alpha", testRecord{Amount: 1}))
	require.NoError(t, txn.Commit())

	// The snapshot predates the commit.
	_, err := testTable.Get(v, "alpha")
	assert.True(t, errors.Is(err, errs.NotFound))

	v2 := s.View()
	defer v2.Close()
	_, err = testTable.Get(v2, "alpha")
	assert.NoError(t, err)
}

func TestTxnAfterFinishRejected(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	require.NoError(t, txn.Commit())

	err := testTable.Insert(txn, "alpha", testRecord{})
	assert.True(t, errors.Is(err, errs.Closed))
}

func seedRecords(t *testing.T, s *Store, keys ...string) {
	t.Helper()

	txn := s.Begin()
	for i, k := range keys {
		require.NoError(t, testTable.Insert(txn, k, testRecord{Amount: uint64(i)}))
	}
	require.NoError(t, txn.Commit())
}

func collectKeys(t *testing.T, r Reader, o IterOptions[string]) []string {
	t.Helper()

	var keys []string
	err := testTable.Iterate(r, o, func(k string, _ testRecord) (bool, error) {
		keys = append(keys, k)
		return true, nil
	})
	require.NoError(t, err)
	return keys
}

func TestIterate(t *testing.T) {
	s := openTestStore(t)
	seedRecords(t, s, "delta", "alpha", "charlie", "bravo")

	v := s.View()
	defer v.Close()

	t.Run("key_order", func(t *testing.T) {
		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, collectKeys(t, v, IterOptions[string]{}))
	})

	t.Run("reverse", func(t *testing.T) {
		assert.Equal(t, []string{"delta", "charlie", "bravo", "alpha"}, collectKeys(t, v, IterOptions[string]{Reverse: true}))
	})

	t.Run("start_is_exclusive", func(t *testing.T) {
		start := "bravo"
		assert.Equal(t, []string{"charlie", "delta"}, collectKeys(t, v, IterOptions[string]{Start: &start}))
	})

	t.Run("reverse_start_is_exclusive", func(t *testing.T) {
		start := "charlie"
		assert.Equal(t, []string{"bravo", "alpha"}, collectKeys(t, v, IterOptions[string]{Start: &start, Reverse: true}))
	})

	t.Run("early_stop", func(t *testing.T) {
		var keys []string
		err := testTable.Iterate(v, IterOptions[string]{}, func(k string, _ testRecord) (bool, error) {
			keys = append(keys, k)
			return len(keys) < 2, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "bravo"}, keys)
	})

	t.Run("callback_error_propagates", func(t *testing.T) {
		wantErr := errors.New("boom")
		err := testTable.Iterate(v, IterOptions[string]{}, func(string, testRecord) (bool, error) {
			return false, wantErr
		})
		assert.True(t, errors.Is(err, wantErr))
	})
}

func TestIteratePrefix(t *testing.T) {
	s := openTestStore(t)

	pairs := NewTable[StringPair, testRecord]("test_pairs", StringPairKey{})
	txn := s.Begin()
	for _, k := range []StringPair{
		{A: "t1abc", B: "one"},
		{A: "t1abc", B: "two"},
		{A: "t1xyz", B: "three"},
	} {
		require.NoError(t, pairs.Insert(txn, k, testRecord{}))
	}
	require.NoError(t, txn.Commit())

	v := s.View()
	defer v.Close()

	var got []StringPair
	err := pairs.Iterate(v, IterOptions[StringPair]{Prefix: StringPrefix("t1abc")}, func(k StringPair, _ testRecord) (bool, error) {
		got = append(got, k)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []StringPair{{A: "t1abc", B: "one"}, {A: "t1abc", B: "two"}}, got)
}

func TestPaginate(t *testing.T) {
	s := openTestStore(t)
	keys := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		keys = append(keys, fmt.Sprintf("key-%d", i))
	}
	seedRecords(t, s, keys...)

	v := s.View()
	defer v.Close()

	entries, hasMore, err := testTable.Paginate(v, IterOptions[string]{}, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.True(t, hasMore)
	assert.Equal(t, "key-0", entries[0].Key)

	// Resume after the last seen key.
	start := entries[len(entries)-1].Key
	entries, hasMore, err = testTable.Paginate(v, IterOptions[string]{Start: &start}, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.False(t, hasMore)
	assert.Equal(t, "key-3", entries[0].Key)

	_, _, err = testTable.Paginate(v, IterOptions[string]{}, 0)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	seedRecords(t, s, "alpha", "bravo", "charlie")

	v := s.View()
	defer v.Close()

	n, err := testTable.Count(v, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}
