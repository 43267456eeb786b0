package service

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Enrich computes the derived metadata for message content: the number of
// whitespace-delimited words, the character count of the trimmed content, and
// the processing timestamp. Content is assumed non-empty; validation happens
// at the boundary.
func Enrich(content string) (wordCount, characterCount int, processedAt time.Time) {
	trimmed := strings.TrimSpace(content)
	return len(strings.Fields(trimmed)), utf8.RuneCountInString(trimmed), time.Now().UTC()
}
