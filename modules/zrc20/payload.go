package zrc20

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"

	"github.com/zordinals/zord-indexer/internal/entity"
	"github.com/zordinals/zord-indexer/pkg/decimals"
)

const ProtocolId = "zrc-20"

type Operation string

const (
	OperationDeploy   Operation = "deploy"
	OperationMint     Operation = "mint"
	OperationTransfer Operation = "transfer"
)

func (o Operation) IsValid() bool {
	switch o {
	case OperationDeploy, OperationMint, OperationTransfer:
		return true
	}
	return false
}

type rawPayload struct {
	P    string `json:"p"`    // required
	Op   string `json:"op"`   // required
	Tick string `json:"tick"` // required

	// for deploy operations
	Max string  `json:"max"` // required
	Lim *string `json:"lim"`
	Dec *string `json:"dec"`

	// for mint/transfer operations
	Amt string `json:"amt"` // required
}

type Payload struct {
	Inscription  *entity.Inscription
	Op           Operation
	Tick         string // lower-cased tick
	OriginalTick string // original tick before lower-cased

	// for deploy operations
	Max uint128.Uint128 // base units
	Lim uint128.Uint128 // base units
	Dec uint16

	// for mint/transfer operations; scaled against the deployed dec by the
	// engine, since dec is unknown until the token is looked up
	RawAmt string
}

var (
	ErrInvalidProtocol   = errors.New("invalid protocol: must be 'zrc-20'")
	ErrInvalidOperation  = errors.New("invalid operation for zrc-20: must be one of 'deploy', 'mint', or 'transfer'")
	ErrEmptyTick         = errors.New("empty tick")
	ErrInvalidTickLength = errors.New("invalid tick length: must be 4 or 5 bytes")
	ErrEmptyMax          = errors.New("empty max")
	ErrInvalidMax        = errors.New("invalid max: must be greater than zero")
	ErrInvalidLim        = errors.New("invalid lim: must be greater than zero and at most max")
	ErrInvalidDec        = errors.New("invalid dec: must be at most 18")
	ErrEmptyAmt          = errors.New("empty amt")
)

// ParsePayload validates an inscription's JSON content as a zrc-20 envelope.
// Amount fields for mint/transfer stay raw until the token's dec is known.
func ParsePayload(insc *entity.Inscription) (*Payload, error) {
	var p rawPayload
	if err := json.Unmarshal(insc.Content, &p); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal payload as json")
	}

	if p.P != ProtocolId {
		return nil, errors.WithStack(ErrInvalidProtocol)
	}
	if !Operation(p.Op).IsValid() {
		return nil, errors.WithStack(ErrInvalidOperation)
	}
	if p.Tick == "" {
		return nil, errors.WithStack(ErrEmptyTick)
	}
	if len(p.Tick) != 4 && len(p.Tick) != 5 {
		return nil, errors.WithStack(ErrInvalidTickLength)
	}

	parsed := Payload{
		Inscription:  insc,
		Op:           Operation(p.Op),
		Tick:         strings.ToLower(p.Tick),
		OriginalTick: p.Tick,
	}

	switch parsed.Op {
	case OperationDeploy:
		if p.Max == "" {
			return nil, errors.WithStack(ErrEmptyMax)
		}
		rawDec := "0"
		if p.Dec != nil && *p.Dec != "" {
			rawDec = *p.Dec
		}
		dec, err := strconv.ParseUint(rawDec, 10, 16)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse dec")
		}
		if dec > decimals.MaxDec {
			return nil, errors.WithStack(ErrInvalidDec)
		}
		parsed.Dec = uint16(dec)

		max, err := decimals.ToBaseUnits(p.Max, parsed.Dec)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse max")
		}
		if max.IsZero() {
			return nil, errors.WithStack(ErrInvalidMax)
		}
		parsed.Max = max

		lim := max
		if p.Lim != nil && *p.Lim != "" {
			lim, err = decimals.ToBaseUnits(*p.Lim, parsed.Dec)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse lim")
			}
		}
		if lim.IsZero() || lim.Cmp(max) > 0 {
			return nil, errors.WithStack(ErrInvalidLim)
		}
		parsed.Lim = lim
	case OperationMint, OperationTransfer:
		if p.Amt == "" {
			return nil, errors.WithStack(ErrEmptyAmt)
		}
		parsed.RawAmt = p.Amt
	default:
		return nil, errors.WithStack(ErrInvalidOperation)
	}
	return &parsed, nil
}
