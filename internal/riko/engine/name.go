package engine

import (
	"strings"
	"unicode"
)

// extractName scans a user utterance for a volunteered name.
//
// Two patterns are recognised, case-insensitively:
//
//   - "my name is X": the token after the phrase, capitalized.
//   - "i'm X" / "i am X": the token after the phrase, accepted only when it
//     is longer than one character and already starts with an uppercase
//     letter. Trailing ,.!? punctuation is stripped first.
//
// The uppercase gate is a crude likely-a-name filter and misfires on any
// capitalized predicate ("I'm Hungry"). That false positive is accepted
// and deliberately not corrected; see DESIGN.md.
func extractName(input string) (string, bool) {
	lower := strings.ToLower(input)

	if idx := strings.Index(lower, "my name is"); idx >= 0 {
		rest := strings.Fields(input[idx+len("my name is"):])
		if len(rest) > 0 {
			if name := strings.Trim(rest[0], ",.!?"); name != "" {
				return capitalize(name), true
			}
		}
		return "", false
	}

	for _, phrase := range []string{"i'm", "i am"} {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(input[idx+len(phrase):])
		if len(rest) == 0 {
			return "", false
		}
		name := strings.Trim(rest[0], ",.!?")
		if len(name) > 1 && startsUpper(name) {
			return name, true
		}
		return "", false
	}

	return "", false
}

// capitalize uppercases the first rune and lowercases the rest, matching how
// the stored name is normalised for the "my name is" pattern.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
