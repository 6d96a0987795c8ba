package textutil

import "strings"

// Slug converts a title to a lowercase hyphen-separated URL slug.
// Letters and digits are kept, runs of every other character collapse
// to a single hyphen. Returns "" for input with no usable characters.
func Slug(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	var b strings.Builder
	hyphen := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}
	return b.String()
}
