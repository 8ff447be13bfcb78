package zrc20

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/internal/entity"
)

func inscriptionWithContent(content string) *entity.Inscription {
	return &entity.Inscription{
		Id:          "deadbeefi0",
		ContentType: "application/json",
		Content:     []byte(content),
	}
}

func TestParsePayloadDeploy(t *testing.T) {
	t.Run("minimal_deploy", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"deploy","tick":"zero","max":"21000000"}`))
		require.NoError(t, err)
		assert.Equal(t, OperationDeploy, p.Op)
		assert.Equal(t, "zero", p.Tick)
		assert.Equal(t, uint128.From64(21000000), p.Max)
		assert.Equal(t, p.Max, p.Lim, "lim defaults to max")
		assert.Equal(t, uint16(0), p.Dec)
	})

	t.Run("deploy_with_lim_and_dec", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"deploy","tick":"zcoin","max":"1000","lim":"10","dec":"2"}`))
		require.NoError(t, err)
		assert.Equal(t, uint16(2), p.Dec)
		assert.Equal(t, uint128.From64(100000), p.Max)
		assert.Equal(t, uint128.From64(1000), p.Lim)
	})

	t.Run("mixed_case_tick_lowered", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"deploy","tick":"Zero","max":"100"}`))
		require.NoError(t, err)
		assert.Equal(t, "zero", p.Tick)
		assert.Equal(t, "Zero", p.OriginalTick)
	})

	t.Run("max_with_decimal_string", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"deploy","tick":"zero","max":"0.5","dec":"1"}`))
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(5), p.Max)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			content  string
			expected error
		}{
			{name: "wrong_protocol", content: `{"p":"brc-20","op":"deploy","tick":"zero","max":"100"}`, expected: ErrInvalidProtocol},
			{name: "unknown_op", content: `{"p":"zrc-20","op":"burn","tick":"zero","max":"100"}`, expected: ErrInvalidOperation},
			{name: "empty_tick", content: `{"p":"zrc-20","op":"deploy","tick":"","max":"100"}`, expected: ErrEmptyTick},
			{name: "tick_too_short", content: `{"p":"zrc-20","op":"deploy","tick":"abc","max":"100"}`, expected: ErrInvalidTickLength},
			{name: "tick_too_long", content: `{"p":"zrc-20","op":"deploy","tick":"abcdef","max":"100"}`, expected: ErrInvalidTickLength},
			{name: "missing_max", content: `{"p":"zrc-20","op":"deploy","tick":"zero"}`, expected: ErrEmptyMax},
			{name: "zero_max", content: `{"p":"zrc-20","op":"deploy","tick":"zero","max":"0"}`, expected: ErrInvalidMax},
			{name: "zero_lim", content: `{"p":"zrc-20","op":"deploy","tick":"zero","max":"100","lim":"0"}`, expected: ErrInvalidLim},
			{name: "lim_above_max", content: `{"p":"zrc-20","op":"deploy","tick":"zero","max":"100","lim":"101"}`, expected: ErrInvalidLim},
			{name: "dec_above_18", content: `{"p":"zrc-20","op":"deploy","tick":"zero","max":"100","dec":"19"}`, expected: ErrInvalidDec},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParsePayload(inscriptionWithContent(tt.content))
				assert.True(t, errors.Is(err, tt.expected), "got %v, want %v", err, tt.expected)
			})
		}
	})

	t.Run("not_json", func(t *testing.T) {
		_, err := ParsePayload(inscriptionWithContent("alice.zec"))
		assert.Error(t, err)
	})
}

func TestParsePayloadMintTransfer(t *testing.T) {
	t.Run("mint_keeps_raw_amt", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"mint","tick":"zero","amt":"10.5"}`))
		require.NoError(t, err)
		assert.Equal(t, OperationMint, p.Op)
		assert.Equal(t, "10.5", p.RawAmt)
	})

	t.Run("transfer_keeps_raw_amt", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"transfer","tick":"zero","amt":"42"}`))
		require.NoError(t, err)
		assert.Equal(t, OperationTransfer, p.Op)
		assert.Equal(t, "42", p.RawAmt)
	})

	t.Run("mint_requires_amt", func(t *testing.T) {
		_, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-20","op":"mint","tick":"zero"}`))
		assert.True(t, errors.Is(err, ErrEmptyAmt))
	})
}
