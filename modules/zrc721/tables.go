package zrc721

import (
	"github.com/zordinals/zord-indexer/internal/store"
)

// Marker is the value type for pure index tables.
type Marker struct{}

var (
	// CollectionsTable keys by case-sensitive collection slug.
	CollectionsTable = store.NewTable[string, CollectionInfo]("collections", store.StringKey{})

	// NftTokensTable keys by (collection, id).
	NftTokensTable = store.NewTable[store.StringUint64, NftToken]("nft_tokens", store.StringUint64Key{})

	// NftOwnerIndexTable keys by (owner, "collection/id") so portfolio reads
	// scan one address prefix.
	NftOwnerIndexTable = store.NewTable[store.StringPair, Marker]("nft_owner_index", store.StringPairKey{})
)
