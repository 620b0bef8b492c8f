package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputBytes fits the longest city names written in non-Latin scripts,
// with room to spare for a yes/no answer.
const DefaultMaxInputBytes = 512

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer normalizes one line of chat input: a city name or a yes/no answer.
type Sanitizer struct {
	maxBytes int
}

// New returns a Sanitizer rejecting inputs over maxBytes. Zero or less selects DefaultMaxInputBytes.
func New(maxBytes int) *Sanitizer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	return &Sanitizer{maxBytes: maxBytes}
}

// MaxBytes returns the configured limit.
func (s *Sanitizer) MaxBytes() int {
	return s.maxBytes
}

// Clean rejects oversized or non-UTF-8 input and returns the text as a single line:
// any whitespace (newlines included) becomes one space, control and invisible
// format characters are dropped and the ends are trimmed. "São \t Paulo\n" becomes
// "São Paulo". Empty input stays empty; the dialog re-prompts on it.
func (s *Sanitizer) Clean(input string) (string, error) {
	if len(input) > s.maxBytes {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), s.maxBytes)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	pendingSpace := false
	for _, r := range input {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			// ESC, NUL, zero-width joiners and the like carry nothing a city name needs.
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
