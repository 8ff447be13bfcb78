package meta

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/store"
)

// Cursor and counter keys. Values are decimal strings.
const (
	KeyCoreHeight        = "core_height"
	KeyZrc20Height       = "zrc20_height"
	KeyZrc721Height      = "zrc721_height"
	KeyZnsHeight         = "zns_height"
	KeyChainTip          = "chain_tip"
	KeyInscriptionsTotal = "inscriptions_total"
	KeyNamesTotal        = "names_total"
	KeyTokensTotal       = "tokens_total"
	KeyCollectionsTotal  = "collections_total"
	KeyNftTokensTotal    = "nft_tokens_total"
)

var Table = store.NewTable[string, string]("meta", store.StringKey{})

// GetUint64 reads a numeric meta value, treating absence as zero.
func GetUint64(r store.Reader, key string) (uint64, error) {
	raw, err := Table.Get(r, key)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return 0, nil
		}
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "meta key %q holds non-numeric value %q", key, raw)
	}
	return v, nil
}

// SetUint64 writes a numeric meta value inside the block journal.
func SetUint64(j *store.Journal, key string, v uint64) error {
	return store.JournalInsert(j, Table, key, strconv.FormatUint(v, 10))
}

// Add applies a signed delta to a numeric meta value.
func Add(j *store.Journal, key string, delta int64) error {
	cur, err := GetUint64(j.Txn(), key)
	if err != nil {
		return err
	}
	next := int64(cur) + delta
	if next < 0 {
		return errors.Wrapf(errs.InvariantViolated, "meta counter %q would go negative", key)
	}
	return SetUint64(j, key, uint64(next))
}
