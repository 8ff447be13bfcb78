package ordinals

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ContentKind is a coarse category recorded alongside each inscription.
type ContentKind string

const (
	ContentKindJSON   ContentKind = "json"
	ContentKindText   ContentKind = "text"
	ContentKindImage  ContentKind = "image"
	ContentKindBinary ContentKind = "binary"
)

const maxPreviewChars = 256

// ClassifyContent categorizes by content type, with a JSON sniff for plain
// text payloads that are actually protocol JSON.
func ClassifyContent(contentType string, content []byte) ContentKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "application/json"):
		return ContentKindJSON
	case strings.HasPrefix(ct, "image/"):
		return ContentKindImage
	case strings.HasPrefix(ct, "text/"):
		if json.Valid(content) {
			return ContentKindJSON
		}
		return ContentKindText
	}
	return ContentKindBinary
}

// PreviewText returns the first characters of the content when it is valid
// UTF-8. Binary content has no preview.
func PreviewText(content []byte) (string, bool) {
	if !utf8.Valid(content) {
		return "", false
	}
	s := string(content)
	count := 0
	for i := range s {
		if count == maxPreviewChars {
			return s[:i], true
		}
		count++
	}
	return s, true
}
