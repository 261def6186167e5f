package usecase

import (
	"regexp"
	"strings"
)

// whitespaceRunPattern collapses runs of whitespace
var whitespaceRunPattern = regexp.MustCompile(`\s+`)

// FormatSearchQuery normalizes a free-text query into the token form
// the scraper endpoints expect: lowercase, whitespace runs collapsed
// to single dashes.
func FormatSearchQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return whitespaceRunPattern.ReplaceAllString(q, "-")
}

// KeywordQuery joins a plan's keyword list into one search query.
func KeywordQuery(keywords []string) string {
	return strings.TrimSpace(strings.Join(keywords, " "))
}
