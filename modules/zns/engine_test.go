package zns

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
)

type engineHarness struct {
	t      *testing.T
	store  *store.Store
	engine *Engine
	nextId int
}

func newEngineHarness(t *testing.T) *engineHarness {
	t.Helper()

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return &engineHarness{t: t, store: s, engine: NewEngine()}
}

func (h *engineHarness) inscription(receiver, content string) *entity.Inscription {
	h.nextId++
	return &entity.Inscription{
		Id:          fmt.Sprintf("tx%04di0", h.nextId),
		ContentType: "text/plain",
		Content:     []byte(content),
		Sender:      receiver,
		Receiver:    receiver,
		BlockHeight: 3132400,
		TxId:        fmt.Sprintf("tx%04d", h.nextId),
	}
}

// apply runs one inscription in its own block transaction.
func (h *engineHarness) apply(insc *entity.Inscription) {
	h.t.Helper()

	txn := h.store.Begin()
	j := store.NewJournal(txn, insc.BlockHeight)
	require.NoError(h.t, h.engine.Apply(context.Background(), j, insc))
	require.NoError(h.t, txn.Commit())
}

func (h *engineHarness) name(key string) NameRecord {
	h.t.Helper()

	v := h.store.View()
	defer v.Close()
	record, err := NamesTable.Get(v, key)
	require.NoError(h.t, err)
	return record
}

func (h *engineHarness) ownerHas(owner, name string) bool {
	h.t.Helper()

	v := h.store.View()
	defer v.Close()
	ok, err := NamesByOwnerTable.Has(v, store.StringPair{A: owner, B: name})
	require.NoError(h.t, err)
	return ok
}

func (h *engineHarness) namesTotal() uint64 {
	h.t.Helper()

	v := h.store.View()
	defer v.Close()
	total, err := meta.GetUint64(v, meta.KeyNamesTotal)
	require.NoError(h.t, err)
	return total
}

func TestEngineRegister(t *testing.T) {
	h := newEngineHarness(t)

	first := h.inscription("t1alice", "satoshi.zec")
	h.apply(first)

	record := h.name("satoshi.zec")
	assert.Equal(t, "satoshi.zec", record.Display)
	assert.Equal(t, "t1alice", record.Owner)
	assert.Equal(t, first.Id, record.InscriptionId)
	assert.Equal(t, "zec", record.Tld)
	assert.Equal(t, uint64(3132400), record.RegisteredHeight)
	assert.True(t, h.ownerHas("t1alice", "satoshi.zec"))
	assert.Equal(t, uint64(1), h.namesTotal())
}

func TestEngineFirstRegistrationWins(t *testing.T) {
	h := newEngineHarness(t)

	h.apply(h.inscription("t1alice", "satoshi.zec"))
	h.apply(h.inscription("t1bob", "satoshi.zec"))

	record := h.name("satoshi.zec")
	assert.Equal(t, "t1alice", record.Owner)
	assert.False(t, h.ownerHas("t1bob", "satoshi.zec"))
	assert.Equal(t, uint64(1), h.namesTotal())
}

func TestEngineCaseInsensitiveCollision(t *testing.T) {
	h := newEngineHarness(t)

	h.apply(h.inscription("t1alice", "Satoshi.zec"))
	h.apply(h.inscription("t1bob", "SATOSHI.ZEC"))

	// Both fold to the same key; the first registration holds and keeps its
	// original casing for display.
	record := h.name("satoshi.zec")
	assert.Equal(t, "Satoshi.zec", record.Display)
	assert.Equal(t, "t1alice", record.Owner)
	assert.Equal(t, uint64(1), h.namesTotal())
}

func TestEngineIgnoresNonNames(t *testing.T) {
	h := newEngineHarness(t)

	invalid := []*entity.Inscription{
		h.inscription("t1alice", "not a name"),
		h.inscription("t1alice", "missing-tld"),
		h.inscription("t1alice", "wrong.com"),
		h.inscription("t1alice", ""),
	}
	json := h.inscription("t1alice", "json.zec")
	json.ContentType = "application/json"
	invalid = append(invalid, json)

	for _, insc := range invalid {
		h.apply(insc)
	}

	assert.Equal(t, uint64(0), h.namesTotal())
	v := h.store.View()
	defer v.Close()
	_, err := NamesTable.Get(v, "json.zec")
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestEngineDifferentTlds(t *testing.T) {
	h := newEngineHarness(t)

	h.apply(h.inscription("t1alice", "satoshi.zec"))
	h.apply(h.inscription("t1bob", "satoshi.zcash"))

	assert.Equal(t, "zec", h.name("satoshi.zec").Tld)
	assert.Equal(t, "zcash", h.name("satoshi.zcash").Tld)
	assert.Equal(t, uint64(2), h.namesTotal())
}
