package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/indexer"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
)

const testStartHeight = 3132356

func openTestUsecase(t *testing.T) (*Usecase, *store.Store) {
	t.Helper()

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return New(s, testStartHeight, "test"), s
}

func markReady(t *testing.T, s *store.Store, height uint64) {
	t.Helper()

	txn := s.Begin()
	j := store.NewJournal(txn, height)
	require.NoError(t, meta.SetUint64(j, meta.KeyCoreHeight, height))
	require.NoError(t, txn.Commit())
}

func seedInscriptions(t *testing.T, s *store.Store, sender string, n int) {
	t.Helper()

	txn := s.Begin()
	for i := 0; i < n; i++ {
		insc := entity.Inscription{
			Id:          fmt.Sprintf("tx%04di0", i),
			Number:      uint64(i),
			ContentType: "text/plain",
			Sender:      sender,
			BlockHeight: testStartHeight + uint64(i),
		}
		require.NoError(t, indexer.InscriptionsTable.Insert(txn, insc.Id, insc))
		require.NoError(t, indexer.InscriptionNumbersTable.Insert(txn, insc.Number, insc.Id))
		require.NoError(t, indexer.AddressInscriptionsTable.Insert(txn, store.StringUint64{S: sender, N: insc.Number}, insc.Id))
	}
	j := store.NewJournal(txn, testStartHeight)
	require.NoError(t, meta.SetUint64(j, meta.KeyInscriptionsTotal, uint64(n)))
	require.NoError(t, txn.Commit())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-5))
	assert.Equal(t, 33, ClampLimit(33))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}

func TestNotReadyBeforeStartHeight(t *testing.T) {
	u, s := openTestUsecase(t)
	markReady(t, s, testStartHeight-1)

	_, err := u.GetInscriptions(context.Background(), 1, 10)
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestGetInscriptionsNewestFirst(t *testing.T) {
	u, s := openTestUsecase(t)
	seedInscriptions(t, s, "t1alice", 5)
	markReady(t, s, testStartHeight)

	page, err := u.GetInscriptions(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 3)
	assert.Equal(t, uint64(4), page.Items[0].Number)
	assert.Equal(t, uint64(2), page.Items[2].Number)

	page, err = u.GetInscriptions(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	require.Len(t, page.Items, 2)
	assert.Equal(t, uint64(1), page.Items[0].Number)
	assert.Equal(t, uint64(0), page.Items[1].Number)
}

func TestGetInscriptionsByAddress(t *testing.T) {
	u, s := openTestUsecase(t)
	seedInscriptions(t, s, "t1alice", 3)
	markReady(t, s, testStartHeight)

	page, err := u.GetInscriptionsByAddress(context.Background(), "t1alice", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, uint64(2), page.Items[0].Number)

	page, err = u.GetInscriptionsByAddress(context.Background(), "t1nobody", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

func TestGetInscriptionLookups(t *testing.T) {
	u, s := openTestUsecase(t)
	seedInscriptions(t, s, "t1alice", 2)
	markReady(t, s, testStartHeight)

	ctx := context.Background()

	item, err := u.GetInscriptionById(ctx, "tx0001i0")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), item.Number)

	item, err = u.GetInscriptionByNumber(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "tx0000i0", item.Id)

	_, err = u.GetInscriptionById(ctx, "missingi0")
	assert.True(t, errors.Is(err, errs.NotFound))
}
