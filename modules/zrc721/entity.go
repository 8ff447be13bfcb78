package zrc721

import (
	"fmt"
)

// CollectionInfo is the deployed state of one collection slug.
type CollectionInfo struct {
	Supply        uint64 `cbor:"1,keyasint"`
	Minted        uint64 `cbor:"2,keyasint"`
	MetaCid       string `cbor:"3,keyasint"`
	RoyaltyBp     uint16 `cbor:"4,keyasint"`
	Deployer      string `cbor:"5,keyasint"`
	InscriptionId string `cbor:"6,keyasint"`
	DeployHeight  uint64 `cbor:"7,keyasint"`
}

// NftToken records the mint of one (collection, id). MetadataPath points
// consumers at the off-chain metadata document; the indexer never fetches it.
type NftToken struct {
	Owner         string `cbor:"1,keyasint"`
	InscriptionId string `cbor:"2,keyasint"`
	MetadataPath  string `cbor:"3,keyasint"`
	MintHeight    uint64 `cbor:"4,keyasint"`
}

// TokenRef names one minted NFT for the owner index.
type TokenRef struct {
	Collection string
	Id         uint64
}

func (r TokenRef) String() string {
	return fmt.Sprintf("%s/%d", r.Collection, r.Id)
}

func metadataPath(metaCid string, id uint64) string {
	return fmt.Sprintf("%s/%d.json", metaCid, id)
}
