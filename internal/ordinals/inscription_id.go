package ordinals

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/zordinals/zord-indexer/common/errs"
)

// FormatInscriptionId renders the canonical "{txid}i{vin}" form.
func FormatInscriptionId(txid string, vinIndex uint32) string {
	return fmt.Sprintf("%si%d", txid, vinIndex)
}

// ParseInscriptionId splits and validates a "{txid}i{vin}" identifier. The
// txid must be 64 hex characters.
func ParseInscriptionId(s string) (txid string, vinIndex uint32, err error) {
	sep := strings.LastIndexByte(s, 'i')
	if sep < 0 {
		return "", 0, errors.Wrap(errs.InvalidArgument, "inscription id must contain an 'i' separator")
	}
	txid = s[:sep]
	if len(txid) != 64 {
		return "", 0, errors.Wrap(errs.InvalidArgument, "inscription id txid must be 64 hex characters")
	}
	if _, decodeErr := hex.DecodeString(txid); decodeErr != nil {
		return "", 0, errors.Wrap(errs.InvalidArgument, "inscription id txid must be hex")
	}
	index, parseErr := strconv.ParseUint(s[sep+1:], 10, 32)
	if parseErr != nil {
		return "", 0, errors.Wrap(errs.InvalidArgument, "inscription id input index must be numeric")
	}
	return txid, uint32(index), nil
}
