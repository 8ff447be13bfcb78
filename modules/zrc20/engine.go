package zrc20

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/core/types"
	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/internal/meta"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/pkg/decimals"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

// Engine applies zrc-20 envelopes to token state. Every mutation goes
// through the block journal so a reorg can replay the block in reverse.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "zrc20"
}

// checkedAdd adds in the 128-bit domain and fails instead of wrapping.
func checkedAdd(a, b uint128.Uint128) (uint128.Uint128, error) {
	c := a.AddWrap(b)
	if c.Cmp(a) < 0 {
		return uint128.Uint128{}, errors.WithStack(errs.OverflowUint128)
	}
	return c, nil
}

// Apply interprets one inscription. Protocol-invalid payloads and rule
// misses are ignored without error; only store failures propagate.
func (e *Engine) Apply(ctx context.Context, j *store.Journal, insc *entity.Inscription) error {
	payload, err := ParsePayload(insc)
	if err != nil {
		logger.DebugContext(ctx, "ignoring invalid zrc-20 payload",
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
	case OperationTransfer:
		return e.applyTransferInscribe(ctx, j, payload)
	}
	return nil
}

func (e *Engine) applyDeploy(ctx context.Context, j *store.Journal, p *Payload) error {
	exists, err := TokensTable.Has(j.Txn(), p.Tick)
	if err != nil {
		return err
	}
	if exists {
		logger.DebugContext(ctx, "tick already deployed, first deploy wins",
			slogx.String("tick", p.Tick),
			slogx.String("inscriptionId", p.Inscription.Id),
		)
		return nil
	}

	token := TokenInfo{
		TickDisplay:   p.OriginalTick,
		Max:           p.Max.String(),
		Lim:           p.Lim.String(),
		Dec:           p.Dec,
		Deployer:      p.Inscription.Sender,
		Supply:        "0",
		InscriptionId: p.Inscription.Id,
		DeployHeight:  p.Inscription.BlockHeight,
	}
	if err := store.JournalInsert(j, TokensTable, p.Tick, token); err != nil {
		return err
	}
	if err := store.JournalInsert(j, StatsTable, p.Tick, zeroStats()); err != nil {
		return err
	}
	if err := meta.Add(j, meta.KeyTokensTotal, 1); err != nil {
		return err
	}

	logger.InfoContext(ctx, "deployed zrc-20 token",
		slogx.String("tick", p.Tick),
		slogx.String("max", token.Max),
		slogx.String("deployer", token.Deployer),
	)
	return nil
}

func (e *Engine) applyMint(ctx context.Context, j *store.Journal, p *Payload) error {
	token, err := TokensTable.Get(j.Txn(), p.Tick)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil
		}
		return err
	}

	amt, err := decimals.ToBaseUnits(p.RawAmt, token.Dec)
	if err != nil || amt.IsZero() {
		return nil
	}
	lim, err := token.LimBase()
	if err != nil {
		return err
	}
	if amt.Cmp(lim) > 0 {
		return nil
	}

	max, err := token.MaxBase()
	if err != nil {
		return err
	}
	supply, err := token.SupplyBase()
	if err != nil {
		return err
	}
	remaining := max.Sub(supply)
	if remaining.IsZero() {
		return nil
	}
	// mint that would cross max is clipped to the remainder
	accepted := amt
	if accepted.Cmp(remaining) > 0 {
		accepted = remaining
	}

	token.Supply = supply.Add(accepted).String()
	if err := store.JournalInsert(j, TokensTable, p.Tick, token); err != nil {
		return err
	}
	if err := e.credit(j, p.Tick, p.Inscription.Receiver, accepted); err != nil {
		return err
	}

	logger.DebugContext(ctx, "minted zrc-20",
		slogx.String("tick", p.Tick),
		slogx.String("amount", accepted.String()),
		slogx.String("to", p.Inscription.Receiver),
	)
	return nil
}

func (e *Engine) applyTransferInscribe(ctx context.Context, j *store.Journal, p *Payload) error {
	token, err := TokensTable.Get(j.Txn(), p.Tick)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil
		}
		return err
	}

	amt, err := decimals.ToBaseUnits(p.RawAmt, token.Dec)
	if err != nil || amt.IsZero() {
		return nil
	}

	// the holder encumbers their own balance regardless of the envelope's
	// receiving output
	holder := p.Inscription.Sender
	balanceKey := store.StringPair{A: p.Tick, B: holder}
	balance, err := BalancesTable.Get(j.Txn(), balanceKey)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil
		}
		return err
	}
	available, err := balance.AvailableBase()
	if err != nil {
		return err
	}
	if available.Cmp(amt) < 0 {
		return nil
	}

	balance.Available = available.Sub(amt).String()
	if err := store.JournalInsert(j, BalancesTable, balanceKey, balance); err != nil {
		return err
	}

	record := TransferRecord{
		Tick:   p.Tick,
		Amt:    amt.String(),
		Sender: holder,
	}
	if err := store.JournalInsert(j, TransfersTable, p.Inscription.Id, record); err != nil {
		return err
	}
	carrier := Outpoint{TxId: p.Inscription.TxId, Vout: 0}
	if err := store.JournalInsert(j, TransferOutpointsTable, carrier.String(), p.Inscription.Id); err != nil {
		return err
	}

	logger.DebugContext(ctx, "inscribed zrc-20 transfer",
		slogx.String("tick", p.Tick),
		slogx.String("amount", amt.String()),
		slogx.String("sender", holder),
	)
	return nil
}

// OnSpend settles an outstanding transfer when its carrier outpoint is spent
// by the scanned transaction. Inputs that spend nothing of interest return
// immediately.
func (e *Engine) OnSpend(ctx context.Context, j *store.Journal, in types.TxIn, spendingTx *types.Transaction) error {
	outpointKey := fmt.Sprintf("%s:%d", in.TxId, in.Vout)
	inscriptionId, err := TransferOutpointsTable.Get(j.Txn(), outpointKey)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil
		}
		return err
	}

	record, err := TransfersTable.Get(j.Txn(), inscriptionId)
	if err != nil {
		return err
	}
	if record.Used {
		return nil
	}
	amt, err := record.AmtBase()
	if err != nil {
		return err
	}

	burn := spendingTx.OnlyOpReturnOutputs()
	recipient := spendingTx.FirstOutputAddress()
	if recipient == "" {
		burn = true
	}

	// debit the sender's locked amount
	senderKey := store.StringPair{A: record.Tick, B: record.Sender}
	senderBalance, err := BalancesTable.Get(j.Txn(), senderKey)
	if err != nil {
		return err
	}
	senderOverall, err := senderBalance.OverallBase()
	if err != nil {
		return err
	}
	if senderOverall.Cmp(amt) < 0 {
		return errors.Wrapf(errs.InvariantViolated,
			"transfer %s settles %s but sender overall is %s", inscriptionId, record.Amt, senderBalance.Overall)
	}
	newSenderOverall := senderOverall.Sub(amt)
	senderBalance.Overall = newSenderOverall.String()
	if err := store.JournalInsert(j, BalancesTable, senderKey, senderBalance); err != nil {
		return err
	}

	stats, err := StatsTable.Get(j.Txn(), record.Tick)
	if err != nil {
		return err
	}
	if senderOverall.Sign() > 0 && newSenderOverall.IsZero() {
		stats.HoldersPositive--
	}

	outpoint := Outpoint{TxId: spendingTx.TxId, Vout: carrierVout(spendingTx)}
	record.Used = true
	record.Outpoint = &outpoint
	if err := store.JournalInsert(j, TransfersTable, inscriptionId, record); err != nil {
		return err
	}
	if err := store.JournalRemove(j, TransferOutpointsTable, outpointKey); err != nil {
		return err
	}

	if burn {
		burned, err := stats.BurnedBase()
		if err != nil {
			return err
		}
		burned, err = checkedAdd(burned, amt)
		if err != nil {
			return err
		}
		stats.Burned = burned.String()
	}
	stats.TransfersCompleted++
	if err := store.JournalInsert(j, StatsTable, record.Tick, stats); err != nil {
		return err
	}

	if !burn {
		if err := e.credit(j, record.Tick, recipient, amt); err != nil {
			return err
		}
	}

	logger.DebugContext(ctx, "executed zrc-20 transfer",
		slogx.String("tick", record.Tick),
		slogx.String("amount", record.Amt),
		slogx.String("from", record.Sender),
		slogx.String("to", recipient),
		slogx.Bool("burned", burn),
	)
	return nil
}

// carrierVout picks the first value-bearing output of the spending tx.
func carrierVout(tx *types.Transaction) uint32 {
	for _, out := range tx.Vout {
		if !out.IsOpReturn() {
			return out.N
		}
	}
	return 0
}

// credit adds amt to an address's available and overall balance, maintaining
// the dual index and holder stats.
func (e *Engine) credit(j *store.Journal, tick, address string, amt uint128.Uint128) error {
	key := store.StringPair{A: tick, B: address}
	stats, err := StatsTable.Get(j.Txn(), tick)
	if err != nil {
		return err
	}

	balance, err := BalancesTable.Get(j.Txn(), key)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return err
		}
		balance = zeroBalance()
		stats.HoldersTotal++
		if err := store.JournalInsert(j, BalancesByAddressTable, store.StringPair{A: address, B: tick}, Marker{}); err != nil {
			return err
		}
	}

	overall, err := balance.OverallBase()
	if err != nil {
		return err
	}
	available, err := balance.AvailableBase()
	if err != nil {
		return err
	}
	if overall.IsZero() && amt.Sign() > 0 {
		stats.HoldersPositive++
	}

	newOverall, err := checkedAdd(overall, amt)
	if err != nil {
		return err
	}
	newAvailable, err := checkedAdd(available, amt)
	if err != nil {
		return err
	}
	balance.Overall = newOverall.String()
	balance.Available = newAvailable.String()

	if err := store.JournalInsert(j, BalancesTable, key, balance); err != nil {
		return err
	}
	return store.JournalInsert(j, StatsTable, tick, stats)
}
