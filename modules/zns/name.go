package zns

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/zordinals/zord-indexer/internal/entity"
)

// MaxNameLength caps names at the DNS hostname limit.
const MaxNameLength = 253

var namePattern = regexp.MustCompile(`^[a-z0-9-]+\.(zec|zcash)$`)

var (
	ErrNotPlainText   = errors.New("content type is not text/plain")
	ErrNotUtf8        = errors.New("content is not valid utf-8")
	ErrEmptyName      = errors.New("empty name")
	ErrNameTooLong    = errors.New("name exceeds 253 bytes")
	ErrNameWhitespace = errors.New("name contains whitespace")
	ErrInvalidName    = errors.New("name must match [a-z0-9-]+.(zec|zcash)")
)

// Candidate is a name registration lifted out of a text/plain inscription.
type Candidate struct {
	Inscription *entity.Inscription
	Name        string // lowercase key
	Display     string // trimmed content before lowercasing
	Tld         string
}

// ParseCandidate checks an inscription for a registrable name. The content
// is trimmed, then lowercased for the registry key; the trimmed original is
// kept as the display form.
func ParseCandidate(insc *entity.Inscription) (*Candidate, error) {
	if !strings.HasPrefix(strings.ToLower(insc.ContentType), "text/plain") {
		return nil, errors.WithStack(ErrNotPlainText)
	}
	if !utf8.Valid(insc.Content) {
		return nil, errors.WithStack(ErrNotUtf8)
	}

	display := strings.TrimSpace(string(insc.Content))
	if display == "" {
		return nil, errors.WithStack(ErrEmptyName)
	}
	if len(display) > MaxNameLength {
		return nil, errors.WithStack(ErrNameTooLong)
	}
	if strings.IndexFunc(display, unicode.IsSpace) >= 0 {
		return nil, errors.WithStack(ErrNameWhitespace)
	}

	name := strings.ToLower(display)
	if !namePattern.MatchString(name) {
		return nil, errors.WithStack(ErrInvalidName)
	}
	tld := name[strings.LastIndexByte(name, '.')+1:]

	return &Candidate{
		Inscription: insc,
		Name:        name,
		Display:     display,
		Tld:         tld,
	}, nil
}
