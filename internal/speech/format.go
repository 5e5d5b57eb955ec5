package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatUtterance applies minimal local cleanup to recognized speech:
// trim, capitalize the first letter, ensure terminal punctuation.
// Used on the latency-sensitive gather path, where a round trip to the
// completion adapter would make the conversation feel laggy.
func FormatUtterance(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsLower(r) {
		s = string(unicode.ToUpper(r)) + s[size:]
	}

	switch s[len(s)-1] {
	case '.', '!', '?':
	default:
		s += "."
	}
	return s
}
