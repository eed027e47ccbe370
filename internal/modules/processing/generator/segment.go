package generator

import (
	"regexp"
	"strings"
)

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// SplitOutline cuts an outline into segments at blank lines. Each segment is
// one main heading with its sub-headings, trimmed; empty segments are dropped.
func SplitOutline(outline string) []string {
	text := strings.ReplaceAll(outline, "\r\n", "\n")
	parts := blankLines.Split(text, -1)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
