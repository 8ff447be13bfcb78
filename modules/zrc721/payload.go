package zrc721

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/zordinals/zord-indexer/internal/entity"
)

const ProtocolId = "zrc-721"

type Operation string

const (
	OperationDeploy Operation = "deploy"
	OperationMint   Operation = "mint"
)

func (o Operation) IsValid() bool {
	switch o {
	case OperationDeploy, OperationMint:
		return true
	}
	return false
}

// MaxRoyaltyBp caps royalties at 100%.
const MaxRoyaltyBp = 10000

type rawPayload struct {
	P          string `json:"p"`  // required
	Op         string `json:"op"` // required
	Collection string `json:"collection"`
	Tick       string `json:"tick"` // accepted alias for collection

	// for deploy operations
	Supply  string  `json:"supply"` // required
	Meta    string  `json:"meta"`   // required
	Royalty *string `json:"royalty"`

	// for mint operations
	Id string  `json:"id"` // required
	To *string `json:"to"`
}

type Payload struct {
	Inscription *entity.Inscription
	Op          Operation
	Collection  string // case-sensitive slug

	// for deploy operations
	Supply    uint64
	Meta      string
	RoyaltyBp uint16

	// for mint operations
	Id uint64
	To string // optional receiver override, empty when absent
}

var (
	ErrInvalidProtocol  = errors.New("invalid protocol: must be 'zrc-721'")
	ErrInvalidOperation = errors.New("invalid operation for zrc-721: must be one of 'deploy' or 'mint'")
	ErrEmptyCollection  = errors.New("empty collection")
	ErrEmptySupply      = errors.New("empty supply")
	ErrInvalidSupply    = errors.New("invalid supply: must be at least 1")
	ErrEmptyMeta        = errors.New("empty meta")
	ErrInvalidRoyalty   = errors.New("invalid royalty: must be between 0 and 10000 basis points")
	ErrEmptyId          = errors.New("empty id")
)

// ParsePayload validates an inscription's JSON content as a zrc-721 envelope.
// The `tick` field is accepted as an alias for `collection`.
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
	collection := p.Collection
	if collection == "" {
		collection = p.Tick
	}
	if collection == "" {
		return nil, errors.WithStack(ErrEmptyCollection)
	}

	parsed := Payload{
		Inscription: insc,
		Op:          Operation(p.Op),
		Collection:  collection,
	}

	switch parsed.Op {
	case OperationDeploy:
		if p.Supply == "" {
			return nil, errors.WithStack(ErrEmptySupply)
		}
		supply, err := strconv.ParseUint(p.Supply, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse supply")
		}
		if supply < 1 {
			return nil, errors.WithStack(ErrInvalidSupply)
		}
		parsed.Supply = supply

		if p.Meta == "" {
			return nil, errors.WithStack(ErrEmptyMeta)
		}
		parsed.Meta = p.Meta

		if p.Royalty != nil && *p.Royalty != "" {
			royalty, err := strconv.ParseUint(*p.Royalty, 10, 16)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse royalty")
			}
			if royalty > MaxRoyaltyBp {
				return nil, errors.WithStack(ErrInvalidRoyalty)
			}
			parsed.RoyaltyBp = uint16(royalty)
		}
	case OperationMint:
		if p.Id == "" {
			return nil, errors.WithStack(ErrEmptyId)
		}
		id, err := strconv.ParseUint(p.Id, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse id")
		}
		parsed.Id = id
		if p.To != nil {
			parsed.To = *p.To
		}
	default:
		return nil, errors.WithStack(ErrInvalidOperation)
	}
	return &parsed, nil
}
