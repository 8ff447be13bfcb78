package ordinals

import (
	"bytes"
	"unicode/utf8"

	"github.com/btcsuite/btcd/txscript"
)

// Envelope is the payload carried by one transaction input: a MIME-typed
// blob inscribed among the script-sig pushes.
type Envelope struct {
	ContentType string
	Content     []byte
}

// ExtractScriptPushes returns the data pushes of a script-sig in script
// order. A malformed script yields no pushes, so the input is simply treated
// as carrying no envelope.
func ExtractScriptPushes(script []byte) [][]byte {
	pushes := make([][]byte, 0, 4)
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		if data := tokenizer.Data(); data != nil {
			pushes = append(pushes, data)
		}
	}
	if tokenizer.Err() != nil {
		return nil
	}
	return pushes
}

// isTerminatorPush reports whether a push is signature or key material rather
// than payload. DER signatures start 0x30 with length 8..73; compressed
// pubkeys are 33 bytes starting 0x02/0x03; uncompressed are 65 bytes
// starting 0x04.
func isTerminatorPush(push []byte) bool {
	switch {
	case len(push) >= 8 && len(push) <= 73 && push[0] == 0x30:
		return true
	case len(push) == 33 && (push[0] == 0x02 || push[0] == 0x03):
		return true
	case len(push) == 65 && push[0] == 0x04:
		return true
	}
	return false
}

// isContentTypePush reports whether a push looks like a MIME content type:
// valid UTF-8, contains a '/', at most 255 bytes.
func isContentTypePush(push []byte) bool {
	if len(push) == 0 || len(push) > 255 {
		return false
	}
	if !utf8.Valid(push) {
		return false
	}
	return bytes.ContainsRune(push, '/')
}

// ParseEnvelope scans the input's pushes for an inscription envelope. The
// first MIME-like push is the content type; subsequent pushes concatenate
// into content until signature or key material terminates the stream.
func ParseEnvelope(pushes [][]byte) (*Envelope, bool) {
	ctIndex := -1
	var contentType string
	for i, push := range pushes {
		if isContentTypePush(push) {
			contentType = string(push)
			ctIndex = i
			break
		}
	}
	if ctIndex < 0 {
		return nil, false
	}

	var content []byte
	for _, push := range pushes[ctIndex+1:] {
		if isTerminatorPush(push) {
			break
		}
		content = append(content, push...)
	}
	if len(content) == 0 {
		return nil, false
	}

	return &Envelope{
		ContentType: contentType,
		Content:     content,
	}, true
}
