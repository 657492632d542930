package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate returns s truncated to maxLen characters, with "..." appended if
// truncated. Counts runes, not bytes, so multi-byte text is never cut inside
// a character. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

// ExtractAfterMarker returns the text following the first case-insensitive
// occurrence of marker in s, trimmed of leading/trailing whitespace. The second
// return is false when the marker is absent.
func ExtractAfterMarker(s, marker string) (string, bool) {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(marker))
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(s[idx+len(marker):]), true
}

// CollapseWhitespace replaces runs of whitespace in s with single spaces and
// trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
