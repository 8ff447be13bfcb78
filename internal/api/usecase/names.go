package usecase

import (
	"context"
	"strings"

	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/modules/zns"
)

type NameItem struct {
	Name             string `json:"name"`
	Display          string `json:"display"`
	Owner            string `json:"owner"`
	InscriptionId    string `json:"inscriptionId"`
	Tld              string `json:"tld"`
	RegisteredHeight uint64 `json:"registeredHeight"`
}

type NamePage struct {
	Items   []NameItem `json:"items"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Total   uint64     `json:"total"`
	HasMore bool       `json:"hasMore"`
}

func toNameItem(name string, record zns.NameRecord) NameItem {
	return NameItem{
		Name:             name,
		Display:          record.Display,
		Owner:            record.Owner,
		InscriptionId:    record.InscriptionId,
		Tld:              record.Tld,
		RegisteredHeight: record.RegisteredHeight,
	}
}

// GetNames pages registered names in key order.
func (u *Usecase) GetNames(_ context.Context, page, limit int) (*NamePage, error) {
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

	total, err := meta.GetUint64(v, meta.KeyNamesTotal)
	if err != nil {
		return nil, err
	}

	result := &NamePage{
		Items: make([]NameItem, 0, limit),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	skipped := 0
	err = zns.NamesTable.Iterate(v, store.IterOptions[string]{}, func(name string, record zns.NameRecord) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		if len(result.Items) == limit {
			result.HasMore = true
			return false, nil
		}
		result.Items = append(result.Items, toNameItem(name, record))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ResolvedName struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ResolveName maps a registered name to its owner address. Lookup is case
// insensitive.
func (u *Usecase) ResolveName(_ context.Context, name string) (*ResolvedName, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	key := strings.ToLower(strings.TrimSpace(name))
	record, err := zns.NamesTable.Get(v, key)
	if err != nil {
		return nil, err
	}
	return &ResolvedName{Name: key, Address: record.Owner}, nil
}

func (u *Usecase) namesOfOwner(v *store.ReadTxn, address string) ([]string, error) {
	names := []string{}
	opts := store.IterOptions[store.StringPair]{Prefix: store.StringPrefix(address)}
	err := zns.NamesByOwnerTable.Iterate(v, opts, func(k store.StringPair, _ zns.Marker) (bool, error) {
		names = append(names, k.B)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
