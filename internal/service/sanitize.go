package service

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// ExcerptLength is the number of characters kept in search excerpts
const ExcerptLength = 150

var (
	richTextPolicy  = bluemonday.UGCPolicy()
	plainTextPolicy = bluemonday.StrictPolicy()
)

// sanitizeRichText strips scripts, event handlers and unsafe URLs from
// editor HTML while keeping formatting
func sanitizeRichText(s string) string {
	return richTextPolicy.Sanitize(s)
}

// plainText removes every tag and collapses whitespace
func plainText(s string) string {
	text := html.UnescapeString(plainTextPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// truncate cuts s to n characters and appends an ellipsis when it was longer
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
