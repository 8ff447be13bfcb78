package zrc20

import (
	"github.com/zordinals/zord-indexer/internal/store"
)

// Marker is the value type for pure index tables.
type Marker struct{}

var (
	// TokensTable keys by lowercase tick.
	TokensTable = store.NewTable[string, TokenInfo]("tokens", store.StringKey{})

	// BalancesTable keys by (tick, address) for per-ticker scans.
	BalancesTable = store.NewTable[store.StringPair, Balance]("balances", store.StringPairKey{})

	// BalancesByAddressTable mirrors BalancesTable keyed (address, tick) so
	// portfolio reads avoid full scans.
	BalancesByAddressTable = store.NewTable[store.StringPair, Marker]("balances_by_address", store.StringPairKey{})

	// TransfersTable keys by inscription id.
	TransfersTable = store.NewTable[string, TransferRecord]("transfer_inscriptions", store.StringKey{})

	// TransferOutpointsTable maps a carrier outpoint "txid:vout" to the
	// outstanding transfer inscription it carries.
	TransferOutpointsTable = store.NewTable[string, string]("transfer_outpoints", store.StringKey{})

	// StatsTable keys by lowercase tick.
	StatsTable = store.NewTable[string, TokenStats]("zrc20_stats", store.StringKey{})
)
