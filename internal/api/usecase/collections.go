package usecase

import (
	"context"

	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/modules/zrc721"
)

type CollectionItem struct {
	Collection    string `json:"collection"`
	Supply        uint64 `json:"supply"`
	Minted        uint64 `json:"minted"`
	MetaCid       string `json:"metaCid"`
	RoyaltyBp     uint16 `json:"royaltyBp"`
	Deployer      string `json:"deployer"`
	InscriptionId string `json:"inscriptionId"`
	DeployHeight  uint64 `json:"deployHeight"`
}

type CollectionPage struct {
	Items   []CollectionItem `json:"items"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Total   uint64           `json:"total"`
	HasMore bool             `json:"hasMore"`
}

func toCollectionItem(slug string, info zrc721.CollectionInfo) CollectionItem {
	return CollectionItem{
		Collection:    slug,
		Supply:        info.Supply,
		Minted:        info.Minted,
		MetaCid:       info.MetaCid,
		RoyaltyBp:     info.RoyaltyBp,
		Deployer:      info.Deployer,
		InscriptionId: info.InscriptionId,
		DeployHeight:  info.DeployHeight,
	}
}

// GetCollections pages deployed collections in slug order.
func (u *Usecase) GetCollections(_ context.Context, page, limit int) (*CollectionPage, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	if page <= 0 {
		page = 1
	}
	limit = ClampLimit(limit)
	offset := (page - 1) * limit

	total, err := meta.GetUint64(v, meta.KeyCollectionsTotal)
	if err != nil {
		return nil, err
	}

	result := &CollectionPage{
		Items: make([]CollectionItem, 0, limit),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	skipped := 0
	err = zrc721.CollectionsTable.Iterate(v, store.IterOptions[string]{}, func(slug string, info zrc721.CollectionInfo) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		if len(result.Items) == limit {
			result.HasMore = true
			return false, nil
		}
		result.Items = append(result.Items, toCollectionItem(slug, info))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type NftTokenItem struct {
	Collection    string `json:"collection"`
	Id            uint64 `json:"id"`
	Owner         string `json:"owner"`
	InscriptionId string `json:"inscriptionId"`
	MetadataPath  string `json:"metadataPath"`
	MintHeight    uint64 `json:"mintHeight"`
}

type NftTokenPage struct {
	Items   []NftTokenItem `json:"items"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   uint64         `json:"total"`
	HasMore bool           `json:"hasMore"`
}

// GetCollectionTokens pages one collection's minted tokens in id order.
func (u *Usecase) GetCollectionTokens(_ context.Context, collection string, page, limit int) (*NftTokenPage, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	info, err := zrc721.CollectionsTable.Get(v, collection)
	if err != nil {
		return nil, err
	}

	if page <= 0 {
		page = 1
	}
	limit = ClampLimit(limit)
	offset := (page - 1) * limit

	result := &NftTokenPage{
		Items: make([]NftTokenItem, 0, limit),
		Page:  page,
		Limit: limit,
		Total: info.Minted,
	}
	skipped := 0
	opts := store.IterOptions[store.StringUint64]{Prefix: store.StringPrefix(collection)}
	err = zrc721.NftTokensTable.Iterate(v, opts, func(k store.StringUint64, token zrc721.NftToken) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		if len(result.Items) == limit {
			result.HasMore = true
			return false, nil
		}
		result.Items = append(result.Items, NftTokenItem{
			Collection:    k.S,
			Id:            k.N,
			Owner:         token.Owner,
			InscriptionId: token.InscriptionId,
			MetadataPath:  token.MetadataPath,
			MintHeight:    token.MintHeight,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *Usecase) nftsOfOwner(v *store.ReadTxn, address string) ([]string, error) {
	refs := []string{}
	opts := store.IterOptions[store.StringPair]{Prefix: store.StringPrefix(address)}
	err := zrc721.NftOwnerIndexTable.Iterate(v, opts, func(k store.StringPair, _ zrc721.Marker) (bool, error) {
		refs = append(refs, k.B)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}
