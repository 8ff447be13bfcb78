package zrc20

import (
	"fmt"

	"github.com/gaze-network/uint128"

	"github.com/zordinals/zord-indexer/pkg/decimals"
)

// TokenInfo is the deployed state of one ticker. Amounts are decimal strings
// of base units; arithmetic happens in checked uint128.
type TokenInfo struct {
	TickDisplay   string `cbor:"1,keyasint"`
	Max           string `cbor:"2,keyasint"`
	Lim           string `cbor:"3,keyasint"`
	Dec           uint16 `cbor:"4,keyasint"`
	Deployer      string `cbor:"5,keyasint"`
	Supply        string `cbor:"6,keyasint"`
	InscriptionId string `cbor:"7,keyasint"`
	DeployHeight  uint64 `cbor:"8,keyasint"`
}

func (t TokenInfo) MaxBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(t.Max)
}

func (t TokenInfo) LimBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(t.Lim)
}

func (t TokenInfo) SupplyBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(t.Supply)
}

// Balance tracks one (tick, address) pair. Available is the spendable part;
// overall additionally counts amounts locked in outstanding transfer
// inscriptions.
type Balance struct {
	Available string `cbor:"1,keyasint"`
	Overall   string `cbor:"2,keyasint"`
}

func zeroBalance() Balance {
	return Balance{Available: "0", Overall: "0"}
}

func (b Balance) AvailableBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(b.Available)
}

func (b Balance) OverallBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(b.Overall)
}

// Outpoint locates one transaction output.
type Outpoint struct {
	TxId string `cbor:"1,keyasint"`
	Vout uint32 `cbor:"2,keyasint"`
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxId, o.Vout)
}

// TransferRecord is created by transfer-inscribe and settled exactly once by
// transfer-execute.
type TransferRecord struct {
	Tick     string    `cbor:"1,keyasint"`
	Amt      string    `cbor:"2,keyasint"`
	Sender   string    `cbor:"3,keyasint"`
	Used     bool      `cbor:"4,keyasint"`
	Outpoint *Outpoint `cbor:"5,keyasint,omitempty"`
}

func (t TransferRecord) AmtBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(t.Amt)
}

// TokenStats carries per-ticker aggregates maintained by the engine.
type TokenStats struct {
	HoldersTotal       uint64 `cbor:"1,keyasint"`
	HoldersPositive    uint64 `cbor:"2,keyasint"`
	TransfersCompleted uint64 `cbor:"3,keyasint"`
	Burned             string `cbor:"4,keyasint"`
}

func zeroStats() TokenStats {
	return TokenStats{Burned: "0"}
}

func (s TokenStats) BurnedBase() (uint128.Uint128, error) {
	return decimals.ParseBaseUnits(s.Burned)
}
