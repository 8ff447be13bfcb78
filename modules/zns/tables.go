package zns

import (
	"github.com/zordinals/zord-indexer/internal/store"
)

// Marker is the value type for pure index tables.
type Marker struct{}

// NameRecord is the registry entry for one lowercase name.
type NameRecord struct {
	Display          string `cbor:"1,keyasint"`
	Owner            string `cbor:"2,keyasint"`
	InscriptionId    string `cbor:"3,keyasint"`
	Tld              string `cbor:"4,keyasint"`
	RegisteredHeight uint64 `cbor:"5,keyasint"`
}

var (
	// NamesTable keys by lowercase name.
	NamesTable = store.NewTable[string, NameRecord]("names", store.StringKey{})

	// NamesByOwnerTable keys by (owner, name) so portfolio reads scan one
	// address prefix.
	NamesByOwnerTable = store.NewTable[store.StringPair, Marker]("names_by_owner", store.StringPairKey{})
)
