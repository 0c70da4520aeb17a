package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses every run of whitespace
// into a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName prepares a display name such as a space name or nickname.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NameKey is the comparison form of a name, used to detect duplicates that
// differ only in case or spacing.
func NameKey(name string) string {
	return strings.ToLower(TrimAndNormalize(name))
}
