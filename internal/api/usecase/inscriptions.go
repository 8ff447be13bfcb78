package usecase

import (
	"context"

	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/indexer"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/ordinals"
	"github.com/zordinals/zord-indexer/internal/store"
)

type InscriptionItem struct {
	Id            string               `json:"id"`
	Number        uint64               `json:"number"`
	ContentType   string               `json:"contentType"`
	ContentLength uint64               `json:"contentLength"`
	Kind          ordinals.ContentKind `json:"kind"`
	PreviewText   string               `json:"previewText,omitempty"`
	Sender        string               `json:"sender"`
	Receiver      string               `json:"receiver"`
	BlockHeight   uint64               `json:"blockHeight"`
	BlockTime     int64                `json:"blockTime"`
	TxId          string               `json:"txid"`
}

type InscriptionPage struct {
	Items   []InscriptionItem `json:"items"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Total   uint64            `json:"total"`
	HasMore bool              `json:"hasMore"`
}

func toInscriptionItem(insc entity.Inscription) InscriptionItem {
	return InscriptionItem{
		Id:            insc.Id,
		Number:        insc.Number,
		ContentType:   insc.ContentType,
		ContentLength: insc.ContentLength,
		Kind:          insc.Kind,
		PreviewText:   insc.PreviewText,
		Sender:        insc.Sender,
		Receiver:      insc.Receiver,
		BlockHeight:   insc.BlockHeight,
		BlockTime:     insc.BlockTime,
		TxId:          insc.TxId,
	}
}

// GetInscriptions pages the global feed, newest ordinal first.
func (u *Usecase) GetInscriptions(_ context.Context, page, limit int) (*InscriptionPage, error) {
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

	total, err := meta.GetUint64(v, meta.KeyInscriptionsTotal)
	if err != nil {
		return nil, err
	}

	result := &InscriptionPage{
		Items: make([]InscriptionItem, 0, limit),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	skipped := 0
	err = indexer.InscriptionNumbersTable.Iterate(v, store.IterOptions[uint64]{Reverse: true}, func(_ uint64, id string) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		if len(result.Items) == limit {
			result.HasMore = true
			return false, nil
		}
		insc, err := indexer.InscriptionsTable.Get(v, id)
		if err != nil {
			return false, err
		}
		result.Items = append(result.Items, toInscriptionItem(insc))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetInscriptionsByAddress pages one sender's inscriptions, newest first.
func (u *Usecase) GetInscriptionsByAddress(_ context.Context, address string, page, limit int) (*InscriptionPage, error) {
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
	prefix := store.StringPrefix(address)

	total, err := indexer.AddressInscriptionsTable.Count(v, prefix)
	if err != nil {
		return nil, err
	}

	result := &InscriptionPage{
		Items: make([]InscriptionItem, 0, limit),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	skipped := 0
	opts := store.IterOptions[store.StringUint64]{Prefix: prefix, Reverse: true}
	err = indexer.AddressInscriptionsTable.Iterate(v, opts, func(_ store.StringUint64, id string) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		if len(result.Items) == limit {
			result.HasMore = true
			return false, nil
		}
		insc, err := indexer.InscriptionsTable.Get(v, id)
		if err != nil {
			return false, err
		}
		result.Items = append(result.Items, toInscriptionItem(insc))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetInscriptionById returns one ledger record.
func (u *Usecase) GetInscriptionById(_ context.Context, id string) (*InscriptionItem, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	insc, err := indexer.InscriptionsTable.Get(v, id)
	if err != nil {
		return nil, err
	}
	item := toInscriptionItem(insc)
	return &item, nil
}

// GetInscriptionByNumber resolves an ordinal to its ledger record.
func (u *Usecase) GetInscriptionByNumber(ctx context.Context, number uint64) (*InscriptionItem, error) {
	v, err := u.view()
	if err != nil {
		return nil, err
	}
	id, err := indexer.InscriptionNumbersTable.Get(v, number)
	if closeErr := v.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return u.GetInscriptionById(ctx, id)
}

// GetInscriptionContent returns the raw content and its stored content type.
func (u *Usecase) GetInscriptionContent(_ context.Context, id string) (contentType string, content []byte, err error) {
	v, err := u.view()
	if err != nil {
		return "", nil, err
	}
	defer v.Close()

	insc, err := indexer.InscriptionsTable.Get(v, id)
	if err != nil {
		return "", nil, err
	}
	return insc.ContentType, insc.Content, nil
}
