package service

import (
	"fmt"
	"strconv"

	"storybook-server/internal/models"
)

// normalizeStory fills in defaults for any chapter field the model left
// empty, so downstream code never sees a half-formed chapter. Page is
// always the chapter's position: the model's own numbering is not trusted,
// pages must stay contiguous 1..n and unique per book.
func normalizeStory(story *models.StoryBook) {
	for i := range story.Chapters {
		ch := &story.Chapters[i]
		if ch.SubTitle == "" {
			ch.SubTitle = fmt.Sprintf("Chapter %d", i+1)
		}
		if ch.TextContent == "" {
			ch.TextContent = "Content for this chapter is missing."
		}
		if ch.ImageDescription == "" {
			ch.ImageDescription = fmt.Sprintf("Illustration for chapter %d", i+1)
		}
		ch.Page = strconv.Itoa(i + 1)
	}
}

// fallbackStory builds a deterministic local story with exactly pages
// chapters. Used when generation fails or returns an unusable response.
func fallbackStory(prompt string, pages int) *models.StoryBook {
	chapters := make([]models.StoryChapter, pages)
	for i := range chapters {
		n := i + 1
		chapters[i] = models.StoryChapter{
			SubTitle:         fmt.Sprintf("Chapter %d", n),
			TextContent:      fmt.Sprintf("This is the story content for chapter %d about %s...", n, truncate(prompt, 30)),
			ImageDescription: fmt.Sprintf("A vibrant, cartoon-style illustration for chapter %d featuring %s...", n, truncate(prompt, 30)),
			Page:             strconv.Itoa(n),
		}
	}

	return &models.StoryBook{
		BookTitle:            fmt.Sprintf("Story about %s...", truncate(prompt, 20)),
		BookCoverDescription: fmt.Sprintf("A vibrant cover featuring %s...", truncate(prompt, 30)),
		Chapters:             chapters,
	}
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}
