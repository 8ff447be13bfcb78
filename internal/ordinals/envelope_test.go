package ordinals

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScript(t *testing.T, pushes ...[]byte) []byte {
	t.Helper()

	builder := txscript.NewScriptBuilder()
	for _, push := range pushes {
		builder.AddData(push)
	}
	script, err := builder.Script()
	require.NoError(t, err)
	return script
}

func derSig(length int) []byte {
	sig := make([]byte, length)
	sig[0] = 0x30
	for i := 1; i < length; i++ {
		sig[i] = 0x01
	}
	return sig
}

func pubKey(prefix byte, length int) []byte {
	key := make([]byte, length)
	key[0] = prefix
	for i := 1; i < length; i++ {
		key[i] = 0xab
	}
	return key
}

func TestExtractScriptPushes(t *testing.T) {
	t.Run("empty_script", func(t *testing.T) {
		assert.Empty(t, ExtractScriptPushes(nil))
	})

	t.Run("data_pushes_in_order", func(t *testing.T) {
		script := buildScript(t, []byte("first"), []byte("second"))
		pushes := ExtractScriptPushes(script)
		assert.Equal(t, [][]byte{[]byte("first"), []byte("second")}, pushes)
	})

	t.Run("malformed_script_yields_no_pushes", func(t *testing.T) {
		// OP_PUSHDATA1 claiming 100 bytes with only 2 available.
		script := []byte{txscript.OP_PUSHDATA1, 100, 0x01, 0x02}
		assert.Nil(t, ExtractScriptPushes(script))
	})
}

func TestParseEnvelope(t *testing.T) {
	testParse := func(t *testing.T, pushes [][]byte, expected *Envelope) {
		t.Helper()

		envelope, ok := ParseEnvelope(pushes)
		if expected == nil {
			assert.False(t, ok)
			assert.Nil(t, envelope)
			return
		}
		require.True(t, ok)
		assert.Equal(t, expected, envelope)
	}

	t.Run("no_pushes", func(t *testing.T) {
		testParse(t, nil, nil)
	})

	t.Run("plain_spend_has_no_envelope", func(t *testing.T) {
		testParse(t, [][]byte{derSig(71), pubKey(0x02, 33)}, nil)
	})

	t.Run("single_content_push", func(t *testing.T) {
		testParse(t,
			[][]byte{[]byte("text/plain"), []byte("hello")},
			&Envelope{ContentType: "text/plain", Content: []byte("hello")},
		)
	})

	t.Run("content_pushes_concatenate", func(t *testing.T) {
		testParse(t,
			[][]byte{[]byte("application/json"), []byte(`{"p":"zrc-20",`), []byte(`"op":"mint"}`)},
			&Envelope{ContentType: "application/json", Content: []byte(`{"p":"zrc-20","op":"mint"}`)},
		)
	})

	t.Run("content_stops_at_der_signature", func(t *testing.T) {
		testParse(t,
			[][]byte{[]byte("text/plain"), []byte("payload"), derSig(72), []byte("trailing")},
			&Envelope{ContentType: "text/plain", Content: []byte("payload")},
		)
	})

	t.Run("content_stops_at_compressed_pubkey", func(t *testing.T) {
		for _, prefix := range []byte{0x02, 0x03} {
			testParse(t,
				[][]byte{[]byte("text/plain"), []byte("payload"), pubKey(prefix, 33), []byte("trailing")},
				&Envelope{ContentType: "text/plain", Content: []byte("payload")},
			)
		}
	})

	t.Run("content_stops_at_uncompressed_pubkey", func(t *testing.T) {
		testParse(t,
			[][]byte{[]byte("text/plain"), []byte("payload"), pubKey(0x04, 65)},
			&Envelope{ContentType: "text/plain", Content: []byte("payload")},
		)
	})

	t.Run("short_der_prefix_is_content", func(t *testing.T) {
		// 7 bytes is below the signature length floor.
		testParse(t,
			[][]byte{[]byte("application/octet-stream"), derSig(7)},
			&Envelope{ContentType: "application/octet-stream", Content: derSig(7)},
		)
	})

	t.Run("oversized_der_prefix_is_content", func(t *testing.T) {
		// 74 bytes is above the signature length ceiling.
		testParse(t,
			[][]byte{[]byte("application/octet-stream"), derSig(74)},
			&Envelope{ContentType: "application/octet-stream", Content: derSig(74)},
		)
	})

	t.Run("wrong_prefix_33_bytes_is_content", func(t *testing.T) {
		testParse(t,
			[][]byte{[]byte("application/octet-stream"), pubKey(0x05, 33)},
			&Envelope{ContentType: "application/octet-stream", Content: pubKey(0x05, 33)},
		)
	})

	t.Run("signature_before_content_type_is_skipped", func(t *testing.T) {
		testParse(t,
			[][]byte{derSig(71), []byte("text/plain"), []byte("payload")},
			&Envelope{ContentType: "text/plain", Content: []byte("payload")},
		)
	})

	t.Run("content_type_requires_slash", func(t *testing.T) {
		testParse(t, [][]byte{[]byte("textplain"), []byte("payload")}, nil)
	})

	t.Run("content_type_must_be_utf8", func(t *testing.T) {
		testParse(t, [][]byte{{0xff, 0xfe, '/', 0xff}, []byte("payload")}, nil)
	})

	t.Run("content_type_over_255_bytes_rejected", func(t *testing.T) {
		long := []byte("text/" + strings.Repeat("a", 251))
		require.Greater(t, len(long), 255)
		testParse(t, [][]byte{long, []byte("payload")}, nil)
	})

	t.Run("content_type_at_255_bytes_accepted", func(t *testing.T) {
		ct := []byte("text/" + strings.Repeat("a", 250))
		require.Len(t, ct, 255)
		testParse(t,
			[][]byte{ct, []byte("payload")},
			&Envelope{ContentType: string(ct), Content: []byte("payload")},
		)
	})

	t.Run("empty_content_is_no_envelope", func(t *testing.T) {
		testParse(t, [][]byte{[]byte("text/plain")}, nil)
		testParse(t, [][]byte{[]byte("text/plain"), derSig(71)}, nil)
	})

	t.Run("parses_from_script", func(t *testing.T) {
		content := bytes.Repeat([]byte("z"), 100)
		script := buildScript(t, []byte("text/plain;charset=utf-8"), content, derSig(70), pubKey(0x03, 33))
		envelope, ok := ParseEnvelope(ExtractScriptPushes(script))
		require.True(t, ok)
		assert.Equal(t, "text/plain;charset=utf-8", envelope.ContentType)
		assert.Equal(t, content, envelope.Content)
	})
}

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		content     []byte
		expected    ContentKind
	}{
		{name: "json", contentType: "application/json", content: []byte(`{}`), expected: ContentKindJSON},
		{name: "json_with_charset", contentType: "application/json;charset=utf-8", content: []byte(`{}`), expected: ContentKindJSON},
		{name: "plain_text", contentType: "text/plain", content: []byte("alice.zec"), expected: ContentKindText},
		{name: "text_carrying_json", contentType: "text/plain", content: []byte(`{"p":"zrc-20"}`), expected: ContentKindJSON},
		{name: "image", contentType: "image/png", content: []byte{0x89, 0x50}, expected: ContentKindImage},
		{name: "mixed_case", contentType: "Image/PNG", content: nil, expected: ContentKindImage},
		{name: "binary", contentType: "application/octet-stream", content: []byte{0x00}, expected: ContentKindBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyContent(tt.contentType, tt.content))
		})
	}
}

func TestPreviewText(t *testing.T) {
	t.Run("short_text", func(t *testing.T) {
		preview, ok := PreviewText([]byte("hello world"))
		assert.True(t, ok)
		assert.Equal(t, "hello world", preview)
	})

	t.Run("binary_has_no_preview", func(t *testing.T) {
		_, ok := PreviewText([]byte{0xff, 0xfe, 0x00})
		assert.False(t, ok)
	})

	t.Run("truncates_at_rune_boundary", func(t *testing.T) {
		content := strings.Repeat("ä", 300)
		preview, ok := PreviewText([]byte(content))
		assert.True(t, ok)
		assert.Equal(t, strings.Repeat("ä", 256), preview)
	})
}
