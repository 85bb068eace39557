package ai

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
)

// stripTags reduces editor HTML to plain text for prompting and for
// character-budget math. Script and style bodies are dropped entirely.
func stripTags(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// contentLength counts characters, not bytes: budgets must hold for
// multi-byte scripts too.
func contentLength(s string) int {
	return len([]rune(s))
}
