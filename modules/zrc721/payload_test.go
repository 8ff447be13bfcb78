package zrc721

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/internal/entity"
)

func inscriptionWithContent(content string) *entity.Inscription {
	return &entity.Inscription{
		Id:          "cafebabei0",
		ContentType: "application/json",
		Content:     []byte(content),
	}
}

func TestParsePayloadDeploy(t *testing.T) {
	t.Run("minimal_deploy", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"deploy","collection":"zeebras","supply":"1000","meta":"bafy123"}`))
		require.NoError(t, err)
		assert.Equal(t, OperationDeploy, p.Op)
		assert.Equal(t, "zeebras", p.Collection)
		assert.Equal(t, uint64(1000), p.Supply)
		assert.Equal(t, "bafy123", p.Meta)
		assert.Equal(t, uint16(0), p.RoyaltyBp)
	})

	t.Run("tick_is_alias_for_collection", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"deploy","tick":"zeebras","supply":"10","meta":"bafy123"}`))
		require.NoError(t, err)
		assert.Equal(t, "zeebras", p.Collection)
	})

	t.Run("collection_wins_over_tick", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"deploy","collection":"primary","tick":"alias","supply":"10","meta":"bafy123"}`))
		require.NoError(t, err)
		assert.Equal(t, "primary", p.Collection)
	})

	t.Run("deploy_with_royalty", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"deploy","collection":"zeebras","supply":"10","meta":"bafy123","royalty":"250"}`))
		require.NoError(t, err)
		assert.Equal(t, uint16(250), p.RoyaltyBp)
	})

	t.Run("royalty_at_cap", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"deploy","collection":"zeebras","supply":"10","meta":"bafy123","royalty":"10000"}`))
		require.NoError(t, err)
		assert.Equal(t, uint16(10000), p.RoyaltyBp)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			content  string
			expected error
		}{
			{name: "wrong_protocol", content: `{"p":"zrc-20","op":"deploy","collection":"zeebras","supply":"10","meta":"bafy123"}`, expected: ErrInvalidProtocol},
			{name: "unknown_op", content: `{"p":"zrc-721","op":"transfer","collection":"zeebras","id":"1"}`, expected: ErrInvalidOperation},
			{name: "missing_collection", content: `{"p":"zrc-721","op":"deploy","supply":"10","meta":"bafy123"}`, expected: ErrEmptyCollection},
			{name: "missing_supply", content: `{"p":"zrc-721","op":"deploy","collection":"zeebras","meta":"bafy123"}`, expected: ErrEmptySupply},
			{name: "zero_supply", content: `{"p":"zrc-721","op":"deploy","collection":"zeebras","supply":"0","meta":"bafy123"}`, expected: ErrInvalidSupply},
			{name: "missing_meta", content: `{"p":"zrc-721","op":"deploy","collection":"zeebras","supply":"10"}`, expected: ErrEmptyMeta},
			{name: "royalty_above_cap", content: `{"p":"zrc-721","op":"deploy","collection":"zeebras","supply":"10","meta":"bafy123","royalty":"10001"}`, expected: ErrInvalidRoyalty},
			{name: "mint_missing_id", content: `{"p":"zrc-721","op":"mint","collection":"zeebras"}`, expected: ErrEmptyId},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParsePayload(inscriptionWithContent(tt.content))
				assert.True(t, errors.Is(err, tt.expected), "got %v, want %v", err, tt.expected)
			})
		}
	})
}

func TestParsePayloadMint(t *testing.T) {
	t.Run("minimal_mint", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"mint","collection":"zeebras","id":"7"}`))
		require.NoError(t, err)
		assert.Equal(t, OperationMint, p.Op)
		assert.Equal(t, uint64(7), p.Id)
		assert.Empty(t, p.To)
	})

	t.Run("mint_with_receiver_override", func(t *testing.T) {
		p, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"mint","collection":"zeebras","id":"0","to":"t1abc"}`))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), p.Id)
		assert.Equal(t, "t1abc", p.To)
	})

	t.Run("non_numeric_id", func(t *testing.T) {
		_, err := ParsePayload(inscriptionWithContent(`{"p":"zrc-721","op":"mint","collection":"zeebras","id":"seven"}`))
		assert.Error(t, err)
	})
}

func TestMetadataPath(t *testing.T) {
	assert.Equal(t, "bafy123/7.json", metadataPath("bafy123", 7))
}
