package entity

import (
	"github.com/zordinals/zord-indexer/internal/ordinals"
)

// Inscription is the immutable ledger record created for every envelope the
// parser lifts out of a confirmed transaction input.
type Inscription struct {
	Id            string               `cbor:"1,keyasint"`
	Number        uint64               `cbor:"2,keyasint"`
	ContentType   string               `cbor:"3,keyasint"`
	Content       []byte               `cbor:"4,keyasint"`
	ContentLength uint64               `cbor:"5,keyasint"`
	Kind          ordinals.ContentKind `cbor:"6,keyasint"`
	PreviewText   string               `cbor:"7,keyasint,omitempty"`
	Sender        string               `cbor:"8,keyasint"`
	Receiver      string               `cbor:"9,keyasint"`
	BlockHeight   uint64               `cbor:"10,keyasint"`
	BlockTime     int64                `cbor:"11,keyasint"`
	TxId          string               `cbor:"12,keyasint"`
	VinIndex      uint32               `cbor:"13,keyasint"`
}
