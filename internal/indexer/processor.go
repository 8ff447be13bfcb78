package indexer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/zordinals/zord-indexer/core/types"
	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/ordinals"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/modules/zns"
	"github.com/zordinals/zord-indexer/modules/zrc20"
	"github.com/zordinals/zord-indexer/modules/zrc721"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

// Processor applies one block's transactions to store state inside the
// block's journal. Envelope extraction, ledger writes, and engine dispatch
// all happen here; the loop owns transactions and cursors.
type Processor struct {
	zrc20  *zrc20.Engine
	zrc721 *zrc721.Engine
	zns    *zns.Engine
}

func NewProcessor() *Processor {
	return &Processor{
		zrc20:  zrc20.NewEngine(),
		zrc721: zrc721.NewEngine(),
		zns:    zns.NewEngine(),
	}
}

// ApplyBlock runs the block's transactions in order: settlement of spent
// transfer carriers first per input, then envelope extraction and engine
// dispatch for that input.
func (p *Processor) ApplyBlock(ctx context.Context, j *store.Journal, block *types.Block, txs []*types.Transaction) error {
	for _, tx := range txs {
		for vinIndex, in := range tx.Vin {
			if in.Coinbase {
				continue
			}
			if err := p.zrc20.OnSpend(ctx, j, in, tx); err != nil {
				return err
			}
			if err := p.applyInput(ctx, j, block, tx, uint32(vinIndex), in); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Processor) applyInput(ctx context.Context, j *store.Journal, block *types.Block, tx *types.Transaction, vinIndex uint32, in types.TxIn) error {
	envelope, ok := ordinals.ParseEnvelope(ordinals.ExtractScriptPushes(in.ScriptSig))
	if !ok {
		return nil
	}

	insc, err := p.recordInscription(j, block, tx, vinIndex, in, envelope)
	if err != nil {
		return err
	}
	return p.dispatch(ctx, j, insc)
}

// recordInscription writes the immutable ledger entry and assigns the next
// ordinal number.
func (p *Processor) recordInscription(j *store.Journal, block *types.Block, tx *types.Transaction, vinIndex uint32, in types.TxIn, envelope *ordinals.Envelope) (*entity.Inscription, error) {
	number, err := meta.GetUint64(j.Txn(), meta.KeyInscriptionsTotal)
	if err != nil {
		return nil, err
	}

	insc := entity.Inscription{
		Id:            ordinals.FormatInscriptionId(tx.TxId, vinIndex),
		Number:        number,
		ContentType:   envelope.ContentType,
		Content:       envelope.Content,
		ContentLength: uint64(len(envelope.Content)),
		Kind:          ordinals.ClassifyContent(envelope.ContentType, envelope.Content),
		Sender:        in.Address,
		Receiver:      tx.FirstOutputAddress(),
		BlockHeight:   block.Height,
		BlockTime:     block.Time,
		TxId:          tx.TxId,
		VinIndex:      vinIndex,
	}
	if preview, ok := ordinals.PreviewText(envelope.Content); ok {
		insc.PreviewText = preview
	}

	if err := store.JournalInsert(j, InscriptionsTable, insc.Id, insc); err != nil {
		return nil, err
	}
	if err := store.JournalInsert(j, InscriptionNumbersTable, number, insc.Id); err != nil {
		return nil, err
	}
	addrKey := store.StringUint64{S: insc.Sender, N: number}
	if err := store.JournalInsert(j, AddressInscriptionsTable, addrKey, insc.Id); err != nil {
		return nil, err
	}
	if err := meta.Add(j, meta.KeyInscriptionsTotal, 1); err != nil {
		return nil, err
	}
	return &insc, nil
}

// dispatch routes an inscription to the engine claiming its protocol. JSON
// payloads declare themselves through the "p" field; plain text without one
// falls through to the name registry.
func (p *Processor) dispatch(ctx context.Context, j *store.Journal, insc *entity.Inscription) error {
	ct := strings.ToLower(insc.ContentType)
	jsonish := strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "text/plain")

	if jsonish {
		var probe struct {
			P string `json:"p"`
		}
		if err := json.Unmarshal(insc.Content, &probe); err == nil && probe.P != "" {
			switch probe.P {
			case zrc20.ProtocolId:
				return p.zrc20.Apply(ctx, j, insc)
			case zrc721.ProtocolId:
				return p.zrc721.Apply(ctx, j, insc)
			default:
				logger.DebugContext(ctx, "inscription declares unknown protocol",
					slogx.String("inscriptionId", insc.Id),
					slogx.String("protocol", probe.P),
				)
				return nil
			}
		}
	}
	if strings.HasPrefix(ct, "text/plain") {
		return p.zns.Apply(ctx, j, insc)
	}
	return nil
}
