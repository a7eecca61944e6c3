package security

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

const (
	// MaxDisplayLength defines the maximum number of runes kept from a remote string
	MaxDisplayLength = 200
)

// SanitizeDisplay prepares a string received from the user source for
// terminal output. Escape sequences are stripped, remaining control
// characters are dropped (tabs and newlines become spaces) and the
// result is capped at MaxDisplayLength runes.
func SanitizeDisplay(s string) string {
	if s == "" {
		return ""
	}

	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	count := 0
	for _, char := range s {
		if count == MaxDisplayLength {
			b.WriteRune('…')
			break
		}
		switch {
		case char == '\t' || char == '\n' || char == '\r':
			b.WriteByte(' ')
		case unicode.IsControl(char) || char == unicode.ReplacementChar:
			continue
		default:
			b.WriteRune(char)
		}
		count++
	}

	return strings.TrimSpace(b.String())
}
