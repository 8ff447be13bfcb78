package store

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/common/errs"
)

func TestRevertBlockRestoresPriorState(t *testing.T) {
	s := openTestStore(t)

	// Block 100: create alpha, bravo.
	txn := s.Begin()
	j := NewJournal(txn, 100)
	require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: 1}))
	require.NoError(t, JournalInsert(j, testTable, "bravo", testRecord{Amount: 2}))
	require.NoError(t, txn.Commit())

	// Block 101: overwrite alpha, delete bravo, create charlie.
	txn = s.Begin()
	j = NewJournal(txn, 101)
	require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: 10}))
	require.NoError(t, JournalRemove(j, testTable, "bravo"))
	require.NoError(t, JournalInsert(j, testTable, "charlie", testRecord{Amount: 3}))
	require.NoError(t, txn.Commit())

	// Revert block 101.
	txn = s.Begin()
	require.NoError(t, RevertBlock(txn, 101))
	require.NoError(t, txn.Commit())

	v := s.View()
	defer v.Close()

	alpha, err := testTable.Get(v, "alpha")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), alpha.Amount)

	bravo, err := testTable.Get(v, "bravo")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), bravo.Amount)

	_, err = testTable.Get(v, "charlie")
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestRevertBlockRepeatedMutationsOfOneKey(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	j := NewJournal(txn, 100)
	require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: 1}))
	require.NoError(t, txn.Commit())

	// One block touches the same key three times; newest-first replay must
	// land on the pre-block value.
	txn = s.Begin()
	j = NewJournal(txn, 101)
	require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: 2}))
	require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: 3}))
	require.NoError(t, JournalRemove(j, testTable, "alpha"))
	require.NoError(t, txn.Commit())

	txn = s.Begin()
	require.NoError(t, RevertBlock(txn, 101))
	require.NoError(t, txn.Commit())

	v := s.View()
	defer v.Close()
	alpha, err := testTable.Get(v, "alpha")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), alpha.Amount)
}

func TestRevertBlockOnlyTouchesItsHeight(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	j := NewJournal(txn, 100)
	require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: 1}))
	j = NewJournal(txn, 101)
	require.NoError(t, JournalInsert(j, testTable, "bravo", testRecord{Amount: 2}))
	require.NoError(t, txn.Commit())

	txn = s.Begin()
	require.NoError(t, RevertBlock(txn, 101))
	require.NoError(t, txn.Commit())

	v := s.View()
	defer v.Close()

	_, err := testTable.Get(v, "alpha")
	assert.NoError(t, err)
	_, err = testTable.Get(v, "bravo")
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestRevertBlockIsIdempotentWhenJournalEmpty(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	require.NoError(t, RevertBlock(txn, 500))
	require.NoError(t, txn.Commit())
}

func TestPruneJournal(t *testing.T) {
	s := openTestStore(t)

	txn := s.Begin()
	for height := uint64(100); height < 105; height++ {
		j := NewJournal(txn, height)
		require.NoError(t, JournalInsert(j, testTable, "alpha", testRecord{Amount: height}))
	}
	require.NoError(t, txn.Commit())

	txn = s.Begin()
	require.NoError(t, PruneJournal(txn, 103))
	require.NoError(t, txn.Commit())

	v := s.View()
	defer v.Close()

	count := func(height uint64) int {
		n := 0
		err := undoTable.Iterate(v, IterOptions[Uint64Pair]{Prefix: Uint64Key{}.EncodeKey(height)}, func(Uint64Pair, UndoEntry) (bool, error) {
			n++
			return true, nil
		})
		require.NoError(t, err)
		return n
	}
	for height := uint64(100); height < 103; height++ {
		assert.Zero(t, count(height), "height %d should be pruned", height)
	}
	for height := uint64(103); height < 105; height++ {
		assert.Equal(t, 1, count(height), "height %d should survive", height)
	}

	// Pruned heights can no longer be reverted; the value stays as written.
	txn = s.Begin()
	require.NoError(t, RevertBlock(txn, 102))
	require.NoError(t, txn.Commit())

	v2 := s.View()
	defer v2.Close()
	alpha, err := testTable.Get(v2, "alpha")
	require.NoError(t, err)
	assert.Equal(t, uint64(104), alpha.Amount)
}
