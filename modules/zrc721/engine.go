package zrc721

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

// Engine applies zrc-721 envelopes to collection and token state. Every
// mutation goes through the block journal so a reorg can replay the block in
// reverse.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "zrc721"
}

// Apply interprets one inscription. Protocol-invalid payloads and rule
// misses are ignored without error; only store failures propagate.
func (e *Engine) Apply(ctx context.Context, j *store.Journal, insc *entity.Inscription) error {
	payload, err := ParsePayload(insc)
	if err != nil {
		logger.DebugContext(ctx, "ignoring invalid zrc-721 payload",
			slogx.String("inscriptionId", insc.Id),
			slogx.Error(err),
		)
		return nil
	}

	switch payload.Op {
	case OperationDeploy:
		return e.applyDeploy(ctx, j, payload)
	case OperationMint:
		return e.applyMint(ctx, j, payload)
	}
	return nil
}

func (e *Engine) applyDeploy(ctx context.Context, j *store.Journal, p *Payload) error {
	exists, err := CollectionsTable.Has(j.Txn(), p.Collection)
	if err != nil {
		return err
	}
	if exists {
		logger.DebugContext(ctx, "collection already deployed, first deploy wins",
			slogx.String("collection", p.Collection),
			slogx.String("inscriptionId", p.Inscription.Id),
		)
		return nil
	}

	collection := CollectionInfo{
		Supply:        p.Supply,
		MetaCid:       p.Meta,
		RoyaltyBp:     p.RoyaltyBp,
		Deployer:      p.Inscription.Sender,
		InscriptionId: p.Inscription.Id,
		DeployHeight:  p.Inscription.BlockHeight,
	}
	if err := store.JournalInsert(j, CollectionsTable, p.Collection, collection); err != nil {
		return err
	}
	if err := meta.Add(j, meta.KeyCollectionsTotal, 1); err != nil {
		return err
	}

	logger.InfoContext(ctx, "deployed zrc-721 collection",
		slogx.String("collection", p.Collection),
		slogx.Uint64("supply", p.Supply),
		slogx.String("deployer", collection.Deployer),
	)
	return nil
}

func (e *Engine) applyMint(ctx context.Context, j *store.Journal, p *Payload) error {
	collection, err := CollectionsTable.Get(j.Txn(), p.Collection)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil
		}
		return err
	}

	if p.Id >= collection.Supply {
		logger.DebugContext(ctx, "zrc-721 id out of range",
			slogx.String("collection", p.Collection),
			slogx.Uint64("id", p.Id),
			slogx.Uint64("supply", collection.Supply),
		)
		return nil
	}

	tokenKey := store.StringUint64{S: p.Collection, N: p.Id}
	minted, err := NftTokensTable.Has(j.Txn(), tokenKey)
	if err != nil {
		return err
	}
	if minted {
		logger.DebugContext(ctx, "zrc-721 id already minted, first mint wins",
			slogx.String("collection", p.Collection),
			slogx.Uint64("id", p.Id),
		)
		return nil
	}

	owner := lo.Ternary(p.To != "", p.To, p.Inscription.Receiver)

	token := NftToken{
		Owner:         owner,
		InscriptionId: p.Inscription.Id,
		MetadataPath:  metadataPath(collection.MetaCid, p.Id),
		MintHeight:    p.Inscription.BlockHeight,
	}
	if err := store.JournalInsert(j, NftTokensTable, tokenKey, token); err != nil {
		return err
	}

	ref := TokenRef{Collection: p.Collection, Id: p.Id}
	ownerKey := store.StringPair{A: owner, B: ref.String()}
	if err := store.JournalInsert(j, NftOwnerIndexTable, ownerKey, Marker{}); err != nil {
		return err
	}

	collection.Minted++
	if err := store.JournalInsert(j, CollectionsTable, p.Collection, collection); err != nil {
		return err
	}
	if err := meta.Add(j, meta.KeyNftTokensTotal, 1); err != nil {
		return err
	}

	logger.DebugContext(ctx, "minted zrc-721 token",
		slogx.String("collection", p.Collection),
		slogx.Uint64("id", p.Id),
		slogx.String("owner", owner),
	)
	return nil
}
