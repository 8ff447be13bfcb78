package zns

import (
	"context"

	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

// Engine registers names on a first-inscription-wins basis. Every mutation
// goes through the block journal so a reorg can replay the block in reverse.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "zns"
}

// Apply interprets one inscription. Non-name content and duplicate keys are
// ignored without error; only store failures propagate.
func (e *Engine) Apply(ctx context.Context, j *store.Journal, insc *entity.Inscription) error {
	candidate, err := ParseCandidate(insc)
	if err != nil {
		return nil
	}

	taken, err := NamesTable.Has(j.Txn(), candidate.Name)
	if err != nil {
		return err
	}
	if taken {
		logger.DebugContext(ctx, "name already registered, first inscription wins",
			slogx.String("name", candidate.Name),
			slogx.String("inscriptionId", insc.Id),
		)
		return nil
	}

	owner := insc.Receiver
	record := NameRecord{
		Display:          candidate.Display,
		Owner:            owner,
		InscriptionId:    insc.Id,
		Tld:              candidate.Tld,
		RegisteredHeight: insc.BlockHeight,
	}
	if err := store.JournalInsert(j, NamesTable, candidate.Name, record); err != nil {
		return err
	}
	ownerKey := store.StringPair{A: owner, B: candidate.Name}
	if err := store.JournalInsert(j, NamesByOwnerTable, ownerKey, Marker{}); err != nil {
		return err
	}
	if err := meta.Add(j, meta.KeyNamesTotal, 1); err != nil {
		return err
	}

	logger.InfoContext(ctx, "registered name",
		slogx.String("name", candidate.Name),
		slogx.String("owner", owner),
		slogx.String("tld", record.Tld),
	)
	return nil
}
