package store

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"

	"github.com/zordinals/zord-indexer/common/errs"
)

var cborEnc = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

var cborDec = func() cbor.DecMode {
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// KeyCodec encodes typed keys into byte-lexicographic order: strings are
// stored raw, uint64s big-endian, composite components separated by a NUL
// byte (component strings never contain NUL).
type KeyCodec[K any] interface {
	EncodeKey(k K) []byte
	DecodeKey(b []byte) (K, error)
}

type StringKey struct{}

func (StringKey) EncodeKey(k string) []byte { return []byte(k) }

func (StringKey) DecodeKey(b []byte) (string, error) { return string(b), nil }

type Uint64Key struct{}

func (Uint64Key) EncodeKey(k uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], k)
	return buf[:]
}

func (Uint64Key) DecodeKey(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Wrapf(errs.InternalError, "uint64 key must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// StringPrefix encodes the leading string component of a composite key for
// prefix iteration.
func StringPrefix(s string) []byte {
	out := make([]byte, 0, len(s)+1)
	out = append(out, s...)
	return append(out, 0)
}

// StringPair is a two-string composite key.
type StringPair struct {
	A string
	B string
}

type StringPairKey struct{}

func (StringPairKey) EncodeKey(k StringPair) []byte {
	out := make([]byte, 0, len(k.A)+len(k.B)+1)
	out = append(out, k.A...)
	out = append(out, 0)
	out = append(out, k.B...)
	return out
}

func (StringPairKey) DecodeKey(b []byte) (StringPair, error) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return StringPair{}, errors.Wrap(errs.InternalError, "string pair key missing separator")
	}
	return StringPair{A: string(b[:i]), B: string(b[i+1:])}, nil
}

// StringUint64 is a string plus ordered uint64 composite key.
type StringUint64 struct {
	S string
	N uint64
}

type StringUint64Key struct{}

func (StringUint64Key) EncodeKey(k StringUint64) []byte {
	out := make([]byte, 0, len(k.S)+9)
	out = append(out, k.S...)
	out = append(out, 0)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], k.N)
	return append(out, buf[:]...)
}

func (StringUint64Key) DecodeKey(b []byte) (StringUint64, error) {
	if len(b) < 9 {
		return StringUint64{}, errors.Wrap(errs.InternalError, "string-uint64 key too short")
	}
	i := len(b) - 9
	if b[i] != 0 {
		return StringUint64{}, errors.Wrap(errs.InternalError, "string-uint64 key missing separator")
	}
	return StringUint64{S: string(b[:i]), N: binary.BigEndian.Uint64(b[i+1:])}, nil
}

// Uint64Pair orders by A then B, both big-endian.
type Uint64Pair struct {
	A uint64
	B uint64
}

type Uint64PairKey struct{}

func (Uint64PairKey) EncodeKey(k Uint64Pair) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], k.A)
	binary.BigEndian.PutUint64(buf[8:], k.B)
	return buf[:]
}

func (Uint64PairKey) DecodeKey(b []byte) (Uint64Pair, error) {
	if len(b) != 16 {
		return Uint64Pair{}, errors.Wrapf(errs.InternalError, "uint64 pair key must be 16 bytes, got %d", len(b))
	}
	return Uint64Pair{
		A: binary.BigEndian.Uint64(b[:8]),
		B: binary.BigEndian.Uint64(b[8:]),
	}, nil
}
