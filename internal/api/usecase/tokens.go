package usecase

import (
	"context"
	"strings"

	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"

	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/modules/zrc20"
	"github.com/zordinals/zord-indexer/pkg/decimals"
)

type TokenItem struct {
	Ticker          string          `json:"ticker"`
	TickerDisplay   string          `json:"tickerDisplay"`
	Max             string          `json:"max"`
	MaxBaseUnits    string          `json:"maxBaseUnits"`
	Supply          string          `json:"supply"`
	SupplyBaseUnits string          `json:"supplyBaseUnits"`
	Lim             string          `json:"lim"`
	LimBaseUnits    string          `json:"limBaseUnits"`
	Dec             uint16          `json:"dec"`
	Deployer        string          `json:"deployer"`
	InscriptionId   string          `json:"inscriptionId"`
	DeployHeight    uint64          `json:"deployHeight"`
	Progress        decimal.Decimal `json:"progress"`
}

type TokenPage struct {
	Items   []TokenItem `json:"items"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	Total   uint64      `json:"total"`
	HasMore bool        `json:"hasMore"`
}

const progressPrecision = 6

func toTokenItem(tick string, token zrc20.TokenInfo) (TokenItem, error) {
	maxBase, err := token.MaxBase()
	if err != nil {
		return TokenItem{}, err
	}
	supplyBase, err := token.SupplyBase()
	if err != nil {
		return TokenItem{}, err
	}
	limBase, err := token.LimBase()
	if err != nil {
		return TokenItem{}, err
	}

	progress := decimal.NewFromBigInt(supplyBase.Big(), 0).
		DivRound(decimal.NewFromBigInt(maxBase.Big(), 0), progressPrecision)

	return TokenItem{
		Ticker:          tick,
		TickerDisplay:   token.TickDisplay,
		Max:             decimals.FromBaseUnits(maxBase, token.Dec),
		MaxBaseUnits:    token.Max,
		Supply:          decimals.FromBaseUnits(supplyBase, token.Dec),
		SupplyBaseUnits: token.Supply,
		Lim:             decimals.FromBaseUnits(limBase, token.Dec),
		LimBaseUnits:    token.Lim,
		Dec:             token.Dec,
		Deployer:        token.Deployer,
		InscriptionId:   token.InscriptionId,
		DeployHeight:    token.DeployHeight,
		Progress:        progress,
	}, nil
}

// GetTokens pages deployed tokens in tick order.
func (u *Usecase) GetTokens(_ context.Context, page, limit int) (*TokenPage, error) {
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

	total, err := meta.GetUint64(v, meta.KeyTokensTotal)
	if err != nil {
		return nil, err
	}

	result := &TokenPage{
		Items: make([]TokenItem, 0, limit),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	skipped := 0
	err = zrc20.TokensTable.Iterate(v, store.IterOptions[string]{}, func(tick string, token zrc20.TokenInfo) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		if len(result.Items) == limit {
			result.HasMore = true
			return false, nil
		}
		item, err := toTokenItem(tick, token)
		if err != nil {
			return false, err
		}
		result.Items = append(result.Items, item)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type TokenInfoResult struct {
	TokenItem
	HoldersTotal       uint64 `json:"holdersTotal"`
	HoldersPositive    uint64 `json:"holdersPositive"`
	TransfersCompleted uint64 `json:"transfersCompleted"`
	BurnedBaseUnits    string `json:"burnedBaseUnits"`
}

// GetTokenInfo returns one ticker's deployed state and aggregates.
func (u *Usecase) GetTokenInfo(_ context.Context, tick string) (*TokenInfoResult, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	key := strings.ToLower(tick)
	token, err := zrc20.TokensTable.Get(v, key)
	if err != nil {
		return nil, err
	}
	stats, err := zrc20.StatsTable.Get(v, key)
	if err != nil {
		return nil, err
	}
	item, err := toTokenItem(key, token)
	if err != nil {
		return nil, err
	}
	return &TokenInfoResult{
		TokenItem:          item,
		HoldersTotal:       stats.HoldersTotal,
		HoldersPositive:    stats.HoldersPositive,
		TransfersCompleted: stats.TransfersCompleted,
		BurnedBaseUnits:    stats.Burned,
	}, nil
}

type TokenIntegrity struct {
	Ticker                string `json:"ticker"`
	SupplyBaseUnits       string `json:"supplyBaseUnits"`
	SumOverallBaseUnits   string `json:"sumOverallBaseUnits"`
	SumAvailableBaseUnits string `json:"sumAvailableBaseUnits"`
	BurnedBaseUnits       string `json:"burnedBaseUnits"`
	TotalHolders          uint64 `json:"totalHolders"`
	HoldersPositive       uint64 `json:"holdersPositive"`
	Consistent            bool   `json:"consistent"`
}

// GetTokenIntegrity re-sums every balance row for the ticker and checks the
// supply equation supply = sum(overall) + burned.
func (u *Usecase) GetTokenIntegrity(_ context.Context, tick string) (*TokenIntegrity, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	key := strings.ToLower(tick)
	token, err := zrc20.TokensTable.Get(v, key)
	if err != nil {
		return nil, err
	}
	stats, err := zrc20.StatsTable.Get(v, key)
	if err != nil {
		return nil, err
	}
	supply, err := token.SupplyBase()
	if err != nil {
		return nil, err
	}
	burned, err := stats.BurnedBase()
	if err != nil {
		return nil, err
	}

	var sumOverall, sumAvailable uint128.Uint128
	opts := store.IterOptions[store.StringPair]{Prefix: store.StringPrefix(key)}
	err = zrc20.BalancesTable.Iterate(v, opts, func(_ store.StringPair, b zrc20.Balance) (bool, error) {
		overall, err := b.OverallBase()
		if err != nil {
			return false, err
		}
		available, err := b.AvailableBase()
		if err != nil {
			return false, err
		}
		sumOverall = sumOverall.Add(overall)
		sumAvailable = sumAvailable.Add(available)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return &TokenIntegrity{
		Ticker:                key,
		SupplyBaseUnits:       token.Supply,
		SumOverallBaseUnits:   sumOverall.String(),
		SumAvailableBaseUnits: sumAvailable.String(),
		BurnedBaseUnits:       stats.Burned,
		TotalHolders:          stats.HoldersTotal,
		HoldersPositive:       stats.HoldersPositive,
		Consistent:            sumOverall.Add(burned).Cmp(supply) == 0,
	}, nil
}

type TokenRank struct {
	Ticker          string          `json:"ticker"`
	Address         string          `json:"address"`
	OverallBase     string          `json:"overallBaseUnits"`
	Rank            uint64          `json:"rank"`
	HoldersPositive uint64          `json:"holdersPositive"`
	Percentile      decimal.Decimal `json:"percentile"`
}

// GetTokenRank positions an address among the ticker's positive holders by
// overall balance. Rank 1 is the largest holder.
func (u *Usecase) GetTokenRank(_ context.Context, tick, address string) (*TokenRank, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	key := strings.ToLower(tick)
	if _, err := zrc20.TokensTable.Get(v, key); err != nil {
		return nil, err
	}
	target, err := zrc20.BalancesTable.Get(v, store.StringPair{A: key, B: address})
	if err != nil {
		return nil, err
	}
	targetOverall, err := target.OverallBase()
	if err != nil {
		return nil, err
	}

	var larger, positive uint64
	opts := store.IterOptions[store.StringPair]{Prefix: store.StringPrefix(key)}
	err = zrc20.BalancesTable.Iterate(v, opts, func(_ store.StringPair, b zrc20.Balance) (bool, error) {
		overall, err := b.OverallBase()
		if err != nil {
			return false, err
		}
		if overall.IsZero() {
			return true, nil
		}
		positive++
		if overall.Cmp(targetOverall) > 0 {
			larger++
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	rank := larger + 1
	percentile := decimal.Zero
	if positive > 0 {
		percentile = decimal.NewFromInt(int64(rank)).
			DivRound(decimal.NewFromInt(int64(positive)), progressPrecision).
			Mul(decimal.NewFromInt(100))
	}
	return &TokenRank{
		Ticker:          key,
		Address:         address,
		OverallBase:     target.Overall,
		Rank:            rank,
		HoldersPositive: positive,
		Percentile:      percentile,
	}, nil
}

type PortfolioBalance struct {
	Ticker             string `json:"ticker"`
	Available          string `json:"available"`
	AvailableBaseUnits string `json:"availableBaseUnits"`
	Overall            string `json:"overall"`
	OverallBaseUnits   string `json:"overallBaseUnits"`
	Dec                uint16 `json:"dec"`
}

type Portfolio struct {
	Address  string             `json:"address"`
	Balances []PortfolioBalance `json:"balances"`
	Names    []string           `json:"names"`
	Nfts     []string           `json:"nfts"`
}

// GetPortfolio collects an address's token balances, registered names, and
// minted NFTs through the per-address indexes.
func (u *Usecase) GetPortfolio(_ context.Context, address string) (*Portfolio, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	portfolio := &Portfolio{
		Address:  address,
		Balances: []PortfolioBalance{},
		Names:    []string{},
		Nfts:     []string{},
	}
	prefix := store.StringPrefix(address)

	err = zrc20.BalancesByAddressTable.Iterate(v, store.IterOptions[store.StringPair]{Prefix: prefix}, func(k store.StringPair, _ zrc20.Marker) (bool, error) {
		tick := k.B
		balance, err := zrc20.BalancesTable.Get(v, store.StringPair{A: tick, B: address})
		if err != nil {
			return false, err
		}
		token, err := zrc20.TokensTable.Get(v, tick)
		if err != nil {
			return false, err
		}
		available, err := balance.AvailableBase()
		if err != nil {
			return false, err
		}
		overall, err := balance.OverallBase()
		if err != nil {
			return false, err
		}
		portfolio.Balances = append(portfolio.Balances, PortfolioBalance{
			Ticker:             tick,
			Available:          decimals.FromBaseUnits(available, token.Dec),
			AvailableBaseUnits: balance.Available,
			Overall:            decimals.FromBaseUnits(overall, token.Dec),
			OverallBaseUnits:   balance.Overall,
			Dec:                token.Dec,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	names, err := u.namesOfOwner(v, address)
	if err != nil {
		return nil, err
	}
	portfolio.Names = names

	nfts, err := u.nftsOfOwner(v, address)
	if err != nil {
		return nil, err
	}
	portfolio.Nfts = nfts

	return portfolio, nil
}
