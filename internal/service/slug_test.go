package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "The Three Little Acorns", "the-three-little-acorns"},
		{"diacritics", "Étoile über alles", "etoile-uber-alles"},
		{"punctuation", "Hello, World! (2nd edition)", "hello-world-2nd-edition"},
		{"collapse hyphens", "a  -  b", "a-b"},
		{"trim hyphens", "  --wow--  ", "wow"},
		{"empty", "", "untitled"},
		{"only symbols", "!!!", "untitled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}

func TestMakeSlug(t *testing.T) {
	now := time.UnixMilli(1735689600123)

	slug := MakeSlug("My Story", now)
	assert.True(t, strings.HasPrefix(slug, "my-story-"), "slug should start with the slugified title")
	assert.Equal(t, "my-story-600123", slug, "suffix should be the last 6 digits of the millisecond timestamp")

	// Одинаковые заголовки в разное время дают разные слаги.
	other := MakeSlug("My Story", now.Add(time.Second))
	assert.NotEqual(t, slug, other, "two books with identical titles should get different slugs")
}
