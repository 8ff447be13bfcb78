package usecase

import (
	"context"

	"github.com/zordinals/zord-indexer/internal/meta"
)

type ComponentStatus struct {
	Height uint64 `json:"height"`
	Tip    uint64 `json:"tip"`
}

type Status struct {
	Height       uint64 `json:"height"`
	ChainTip     uint64 `json:"chainTip"`
	Inscriptions uint64 `json:"inscriptions"`
	Tokens       uint64 `json:"tokens"`
	Names        uint64 `json:"names"`
	Collections  uint64 `json:"collections"`
	NftTokens    uint64 `json:"nftTokens"`
	Components   struct {
		Core   ComponentStatus `json:"core"`
		Zrc20  ComponentStatus `json:"zrc20"`
		Zrc721 ComponentStatus `json:"zrc721"`
		Names  ComponentStatus `json:"names"`
	} `json:"components"`
	Version string `json:"version"`
}

// GetStatus reports cursor positions and table counters. It works before the
// start height is reached so operators can watch catch-up progress.
func (u *Usecase) GetStatus(_ context.Context) (*Status, error) {
	v := u.store.View()
	defer v.Close()

	var status Status
	var err error
	read := func(key string) uint64 {
		if err != nil {
			return 0
		}
		var n uint64
		n, err = meta.GetUint64(v, key)
		return n
	}

	status.Height = read(meta.KeyCoreHeight)
	status.ChainTip = read(meta.KeyChainTip)
	status.Inscriptions = read(meta.KeyInscriptionsTotal)
	status.Tokens = read(meta.KeyTokensTotal)
	status.Names = read(meta.KeyNamesTotal)
	status.Collections = read(meta.KeyCollectionsTotal)
	status.NftTokens = read(meta.KeyNftTokensTotal)
	status.Components.Core = ComponentStatus{Height: status.Height, Tip: status.ChainTip}
	status.Components.Zrc20 = ComponentStatus{Height: read(meta.KeyZrc20Height), Tip: status.ChainTip}
	status.Components.Zrc721 = ComponentStatus{Height: read(meta.KeyZrc721Height), Tip: status.ChainTip}
	status.Components.Names = ComponentStatus{Height: read(meta.KeyZnsHeight), Tip: status.ChainTip}
	status.Version = u.version
	if err != nil {
		return nil, err
	}
	return &status, nil
}
