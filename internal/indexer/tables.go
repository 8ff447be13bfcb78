package indexer

import (
	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/store"
)

var (
	// BlocksTable keys by height; only heights the core cursor has processed.
	BlocksTable = store.NewTable[uint64, string]("blocks", store.Uint64Key{})

	// InscriptionsTable keys by inscription id "{txid}i{vin}".
	InscriptionsTable = store.NewTable[string, entity.Inscription]("inscriptions", store.StringKey{})

	// InscriptionNumbersTable maps the monotonic ordinal assigned at first
	// observation back to the inscription id.
	InscriptionNumbersTable = store.NewTable[uint64, string]("inscription_numbers", store.Uint64Key{})

	// AddressInscriptionsTable keys by (sender, ordinal) so per-address feeds
	// scan one prefix in ordinal order.
	AddressInscriptionsTable = store.NewTable[store.StringUint64, string]("address_inscriptions", store.StringUint64Key{})
)
