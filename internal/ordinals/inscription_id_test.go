package ordinals

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/common/errs"
)

func TestInscriptionIdRoundTrip(t *testing.T) {
	txid := strings.Repeat("ab", 32)
	id := FormatInscriptionId(txid, 3)
	assert.Equal(t, txid+"i3", id)

	gotTxid, gotVin, err := ParseInscriptionId(id)
	require.NoError(t, err)
	assert.Equal(t, txid, gotTxid)
	assert.Equal(t, uint32(3), gotVin)
}

func TestParseInscriptionIdRejects(t *testing.T) {
	txid := strings.Repeat("ab", 32)
	for name, input := range map[string]string{
		"no_separator":    strings.Repeat("00", 32),
		"short_txid":      "abcdi0",
		"non_hex_txid":    strings.Repeat("zz", 32) + "i0",
		"missing_index":   txid + "i",
		"non_numeric_vin": txid + "ix",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseInscriptionId(input)
			assert.True(t, errors.Is(err, errs.InvalidArgument), "got %v", err)
		})
	}
}
