package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

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

func NormalizeCity(city string) string {
	return TrimAndNormalize(city)
}

func NormalizeNotes(notes string) string {
	return TrimAndNormalize(notes)
}

// SafeCityPattern normalizes a user-supplied city filter and escapes it for
// use inside a Mongo regex. Unescaped input allows catastrophic-backtracking
// patterns like "(a+)+b" straight into the query engine.
func SafeCityPattern(city string) string {
	return regexp.QuoteMeta(NormalizeCity(city))
}
