package decimals

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"

	"github.com/zordinals/zord-indexer/common/errs"
)

// MaxDec is the largest supported number of decimal places for a token.
const MaxDec = 18

// MustFromString convert string to decimal.Decimal. Panic if error.
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var powerOfTen = func() map[int32]decimal.Decimal {
	m := make(map[int32]decimal.Decimal, MaxDec+1)
	for n := int32(0); n <= MaxDec; n++ {
		m[n] = decimal.New(1, n)
	}
	return m
}()

// PowerOfTen optimized arithmetic performance for 10^n within token range.
func PowerOfTen(n uint16) decimal.Decimal {
	if val, ok := powerOfTen[int32(n)]; ok {
		return val
	}
	return decimal.New(1, int32(n))
}

// ToBaseUnits parses a display-unit numeric string and scales it by dec into
// checked 128-bit base units. Negative values, more fractional digits than
// dec, and values past 2^128-1 are rejected.
func ToBaseUnits(s string, dec uint16) (uint128.Uint128, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return uint128.Uint128{}, errors.Wrap(err, "failed to parse decimal number")
	}
	if d.IsNegative() {
		return uint128.Uint128{}, errors.Wrap(errs.InvalidArgument, "amount must not be negative")
	}
	if -d.Exponent() > int32(dec) {
		return uint128.Uint128{}, errors.Wrapf(errs.InvalidArgument, "too many decimal places: max %d", dec)
	}
	scaled := d.Mul(PowerOfTen(dec))
	return fromBig(scaled.BigInt())
}

// ParseBaseUnits parses a stored decimal string of base units.
func ParseBaseUnits(s string) (uint128.Uint128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return uint128.Uint128{}, errors.Wrapf(errs.InvalidArgument, "invalid base unit string %q", s)
	}
	return fromBig(b)
}

func fromBig(b *big.Int) (uint128.Uint128, error) {
	if b.Sign() < 0 {
		return uint128.Uint128{}, errors.Wrap(errs.InvalidArgument, "amount must not be negative")
	}
	if b.BitLen() > 128 {
		return uint128.Uint128{}, errors.WithStack(errs.OverflowUint128)
	}
	return uint128.FromBig(b), nil
}

// FromBaseUnits renders base units as a display-unit decimal string.
func FromBaseUnits(v uint128.Uint128, dec uint16) string {
	return decimal.NewFromBigInt(v.Big(), -int32(dec)).String()
}
