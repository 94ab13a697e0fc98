package logic

import "strings"

// NormalizeTeamName canonicalizes a team or league name for comparison:
// lower-case, keep only [a-z0-9]. Diacritics and punctuation are dropped
// by the character filter rather than transliterated, so both sides of a
// comparison must go through this same function.
func NormalizeTeamName(name string) string {
	lowered := strings.ToLower(name)

	var sb strings.Builder
	sb.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
