package usecase

import (
	"github.com/cockroachdb/errors"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrNotReady signals that the core cursor has not yet reached the first
// inscribable height; the API surfaces it as 503.
var ErrNotReady = errors.Wrap(errs.Unavailable, "indexer has not reached the start height yet")

// Usecase answers read queries from store snapshots. It never mutates state.
type Usecase struct {
	store       *store.Store
	startHeight uint64
	version     string
}

func New(s *store.Store, startHeight uint64, version string) *Usecase {
	return &Usecase{
		store:       s,
		startHeight: startHeight,
		version:     version,
	}
}

// view opens a snapshot after checking the core cursor has reached the start
// height. The caller must Close it.
func (u *Usecase) view() (*store.ReadTxn, error) {
	v := u.store.View()
	height, err := meta.GetUint64(v, meta.KeyCoreHeight)
	if err != nil {
		_ = v.Close()
		return nil, err
	}
	if height < u.startHeight {
		_ = v.Close()
		return nil, errors.WithStack(ErrNotReady)
	}
	return v, nil
}

// ClampLimit normalizes a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
