package zns

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zordinals/zord-indexer/internal/entity"
)

func candidate(contentType, content string) *entity.Inscription {
	return &entity.Inscription{
		Id:          "a1b2i0",
		ContentType: contentType,
		Content:     []byte(content),
	}
}

func TestParseCandidate(t *testing.T) {
	t.Run("valid_zec_name", func(t *testing.T) {
		c, err := ParseCandidate(candidate("text/plain", "alice.zec"))
		require.NoError(t, err)
		assert.Equal(t, "alice.zec", c.Name)
		assert.Equal(t, "alice.zec", c.Display)
		assert.Equal(t, "zec", c.Tld)
	})

	t.Run("valid_zcash_name", func(t *testing.T) {
		c, err := ParseCandidate(candidate("text/plain", "my-site9.zcash"))
		require.NoError(t, err)
		assert.Equal(t, "my-site9.zcash", c.Name)
		assert.Equal(t, "zcash", c.Tld)
	})

	t.Run("uppercase_is_lowercased_for_key", func(t *testing.T) {
		c, err := ParseCandidate(candidate("text/plain", "Alice.ZEC"))
		require.NoError(t, err)
		assert.Equal(t, "alice.zec", c.Name)
		assert.Equal(t, "Alice.ZEC", c.Display)
	})

	t.Run("surrounding_whitespace_is_trimmed", func(t *testing.T) {
		c, err := ParseCandidate(candidate("text/plain", "  alice.zec\n"))
		require.NoError(t, err)
		assert.Equal(t, "alice.zec", c.Name)
		assert.Equal(t, "alice.zec", c.Display)
	})

	t.Run("content_type_with_charset", func(t *testing.T) {
		_, err := ParseCandidate(candidate("text/plain;charset=utf-8", "alice.zec"))
		assert.NoError(t, err)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name        string
			contentType string
			content     string
			expected    error
		}{
			{name: "json_content_type", contentType: "application/json", content: "alice.zec", expected: ErrNotPlainText},
			{name: "empty", contentType: "text/plain", content: "", expected: ErrEmptyName},
			{name: "only_whitespace", contentType: "text/plain", content: "  \n\t ", expected: ErrEmptyName},
			{name: "inner_whitespace", contentType: "text/plain", content: "alice bob.zec", expected: ErrNameWhitespace},
			{name: "too_long", contentType: "text/plain", content: strings.Repeat("a", 250) + ".zec", expected: ErrNameTooLong},
			{name: "missing_tld", contentType: "text/plain", content: "alice", expected: ErrInvalidName},
			{name: "wrong_tld", contentType: "text/plain", content: "alice.btc", expected: ErrInvalidName},
			{name: "underscore", contentType: "text/plain", content: "alice_smith.zec", expected: ErrInvalidName},
			{name: "empty_label", contentType: "text/plain", content: ".zec", expected: ErrInvalidName},
			{name: "unicode_label", contentType: "text/plain", content: "älice.zec", expected: ErrInvalidName},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseCandidate(candidate(tt.contentType, tt.content))
				assert.True(t, errors.Is(err, tt.expected), "got %v, want %v", err, tt.expected)
			})
		}
	})

	t.Run("non_utf8_content", func(t *testing.T) {
		insc := &entity.Inscription{ContentType: "text/plain", Content: []byte{0xff, 0xfe}}
		_, err := ParseCandidate(insc)
		assert.True(t, errors.Is(err, ErrNotUtf8))
	})

	t.Run("max_length_boundary", func(t *testing.T) {
		name := strings.Repeat("a", MaxNameLength-4) + ".zec"
		require.Len(t, name, MaxNameLength)
		c, err := ParseCandidate(candidate("text/plain", name))
		require.NoError(t, err)
		assert.Equal(t, name, c.Name)
	})
}
