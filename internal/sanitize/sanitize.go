// Package sanitize converts raw titles into safe bookmark labels.
package sanitize

import "strings"

// DefaultMaxLen is the default maximum bookmark label length.
const DefaultMaxLen = 100

const ellipsis = "..."

// Title replaces characters that are not allowed in bookmark labels with a
// hyphen and bounds the result to maxLen runes. Overlong titles are cut to
// maxLen-3 runes and terminated with "..."; a maximum too small to carry the
// ellipsis is a plain cut. With maxLen <= 0 the default maximum applies.
func Title(raw string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '*', '?', ':', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, raw)

	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= len(ellipsis) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
