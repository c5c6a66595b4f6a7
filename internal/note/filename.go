package note

import "strings"

// SanitizeFilename strips the characters that are invalid in vault
// filenames and turns path separators into hyphens. Spaces and all
// other characters pass through; no truncation, no normalization.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '\\', '|', '?', '*':
			// dropped
		case '/':
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
