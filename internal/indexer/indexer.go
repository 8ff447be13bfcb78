package indexer

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/core/types"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/internal/tippush"
	"github.com/zordinals/zord-indexer/internal/zcashclient"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

const (
	maxReorgLookBack = 1000
	pollingInterval  = 5 * time.Second
)

// Indexer is the single long-lived writer. It advances the core cursor one
// block at a time, committing each block's effects in one store transaction,
// and wakes early when the tip push subscriber fires.
type Indexer struct {
	store       *store.Store
	client      *zcashclient.Client
	processor   *Processor
	tip         *tippush.Subscriber // nil when no push endpoint is configured
	startHeight uint64

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New(s *store.Store, client *zcashclient.Client, processor *Processor, tip *tippush.Subscriber, startHeight uint64) *Indexer {
	return &Indexer{
		store:       s,
		client:      client,
		processor:   processor,
		tip:         tip,
		startHeight: startHeight,
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (i *Indexer) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		select {
		case <-i.done:
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

// Run drives the catch-up loop until the context is cancelled or a fatal
// error occurs. RPC failures back off and retry; store and invariant failures
// abort the loop.
func (i *Indexer) Run(ctx context.Context) error {
	defer close(i.done)

	ctx = logger.WithContext(ctx, slog.String("package", "indexer"))

	var tipSignal <-chan struct{}
	if i.tip != nil {
		go i.tip.Run(ctx)
		tipSignal = i.tip.Signal()
	}

	for {
		advanced, err := i.advance(ctx)
		if err != nil {
			if errors.Is(err, errs.Rpc) {
				logger.WarnContext(ctx, "rpc failure, backing off", slogx.Error(err))
			} else {
				logger.ErrorContext(ctx, "indexing failed", err)
				return errors.WithStack(err)
			}
		} else if advanced {
			select {
			case <-i.quit:
				return nil
			case <-ctx.Done():
				return nil
			default:
				continue
			}
		}

		select {
		case <-i.quit:
			logger.InfoContext(ctx, "got quit signal, stopping indexer")
			return nil
		case <-ctx.Done():
			return nil
		case <-time.After(pollingInterval):
		case <-tipSignal:
			logger.DebugContext(ctx, "woken by tip push signal")
		}
	}
}

// nextHeight reads the persisted core cursor. Absence means nothing has been
// indexed yet and scanning starts at the configured start height.
func (i *Indexer) nextHeight(r store.Reader) (uint64, bool, error) {
	raw, err := meta.Table.Get(r, meta.KeyCoreHeight)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return i.startHeight, false, nil
		}
		return 0, false, err
	}
	cur, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(err, "core cursor holds non-numeric value %q", raw)
	}
	return cur + 1, true, nil
}

// advance processes at most one block. It returns true when a block was
// committed (or a reorg was repaired) so the caller loops without sleeping.
func (i *Indexer) advance(ctx context.Context) (bool, error) {
	view := i.store.View()
	height, hasPrev, err := i.nextHeight(view)
	if err != nil {
		_ = view.Close()
		return false, err
	}

	var prevHash string
	if hasPrev {
		prevHash, err = BlocksTable.Get(view, height-1)
		if err != nil {
			_ = view.Close()
			return false, errors.Wrapf(err, "missing indexed block %d", height-1)
		}
	}
	if err := view.Close(); err != nil {
		return false, err
	}

	tip, err := i.client.GetBlockCount(ctx)
	if err != nil {
		return false, err
	}
	if height > tip {
		return false, nil
	}

	hash, err := i.client.GetBlockHash(ctx, height)
	if err != nil {
		return false, err
	}
	block, err := i.client.GetBlock(ctx, hash)
	if err != nil {
		return false, err
	}

	if hasPrev && block.Previous != prevHash {
		logger.WarnContext(ctx, "detected chain reorganization, searching for fork point",
			slogx.String("event", "reorg_detected"),
			slogx.Uint64("height", height),
			slogx.String("indexed_hash", prevHash),
			slogx.String("expected_hash", block.Previous),
		)
		if err := i.repairReorg(ctx, height-1); err != nil {
			return false, err
		}
		return true, nil
	}

	txs, err := i.client.GetBlockTransactions(ctx, block.TxIds)
	if err != nil {
		return false, err
	}

	start := time.Now()
	txn := i.store.Begin()
	defer txn.Close()
	j := store.NewJournal(txn, height)

	if err := i.processor.ApplyBlock(ctx, j, block, txs); err != nil {
		return false, err
	}
	if err := store.JournalInsert(j, BlocksTable, height, block.Hash); err != nil {
		return false, err
	}
	for _, key := range []string{meta.KeyCoreHeight, meta.KeyZrc20Height, meta.KeyZrc721Height, meta.KeyZnsHeight} {
		if err := meta.SetUint64(j, key, height); err != nil {
			return false, err
		}
	}
	if err := meta.SetUint64(j, meta.KeyChainTip, tip); err != nil {
		return false, err
	}
	if height >= i.startHeight+maxReorgLookBack {
		if err := store.PruneJournal(txn, height-maxReorgLookBack); err != nil {
			return false, err
		}
	}
	if err := txn.Commit(); err != nil {
		return false, err
	}

	logger.InfoContext(ctx, "indexed block",
		slogx.Uint64("height", height),
		slogx.String("hash", block.Hash),
		slogx.Int("txs", len(txs)),
		slogx.Uint64("tip", tip),
		slogx.Duration("duration", time.Since(start)),
	)
	return true, nil
}

// repairReorg walks back from the given height until the indexed hash matches
// the remote chain, then replays the stale blocks' journals in reverse.
// Cursors and counters were journaled with every block, so the revert
// restores them as well.
func (i *Indexer) repairReorg(ctx context.Context, fromHeight uint64) error {
	view := i.store.View()
	defer view.Close()

	fork := fromHeight
	found := false
	for n := 0; n < maxReorgLookBack && fork >= i.startHeight; n++ {
		indexedHash, err := BlocksTable.Get(view, fork)
		if err != nil {
			return errors.Wrapf(err, "missing indexed block %d during reorg search", fork)
		}
		remoteHash, err := i.client.GetBlockHash(ctx, fork)
		if err != nil {
			return err
		}
		if indexedHash == remoteHash {
			found = true
			break
		}
		fork--
	}
	if !found {
		return errors.Wrapf(errs.InvariantViolated, "reorg deeper than look-back limit %d", maxReorgLookBack)
	}

	logger.InfoContext(ctx, "found reorg fork point, reverting stale blocks",
		slogx.String("event", "reorg_forkpoint"),
		slogx.Uint64("fork", fork),
		slogx.Uint64("stale_blocks", fromHeight-fork),
	)

	txn := i.store.Begin()
	defer txn.Close()
	for h := fromHeight; h > fork; h-- {
		if err := store.RevertBlock(txn, h); err != nil {
			return err
		}
	}
	if err := txn.Commit(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "chain reorganization repaired",
		slogx.Uint64("current_height", fork),
	)
	return nil
}
