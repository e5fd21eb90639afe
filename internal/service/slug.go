package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	nonWordRegex     = regexp.MustCompile(`[^\w-]+`)
	multiHyphenRegex = regexp.MustCompile(`--+`)

	diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts a title to a URL-safe slug: diacritics stripped,
// lowercased, whitespace to hyphens, non-word characters removed, hyphens
// collapsed and trimmed. An empty result falls back to "untitled".
func Slugify(text string) string {
	stripped, _, err := transform.String(diacriticStripper, text)
	if err != nil {
		stripped = text
	}

	slug := strings.ToLower(strings.TrimSpace(stripped))
	slug = whitespaceRegex.ReplaceAllString(slug, "-")
	slug = nonWordRegex.ReplaceAllString(slug, "")
	slug = multiHyphenRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// MakeSlug derives the final slug for a book: the slugified title plus a
// time-based uniqueness suffix, so two books with identical titles get
// different slugs without a retry loop.
func MakeSlug(title string, now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	suffix := ms
	if len(ms) > 6 {
		suffix = ms[len(ms)-6:]
	}
	return Slugify(title) + "-" + suffix
}
