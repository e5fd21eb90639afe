package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	booksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storybook_books_created_total",
		Help: "Total number of books created successfully.",
	})
	storyFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storybook_story_fallbacks_total",
		Help: "Total number of books built from the local fallback story.",
	})
	coverImageFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storybook_cover_image_failures_total",
		Help: "Total number of book creations aborted by a cover image failure.",
	})
	chapterImageFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storybook_chapter_image_failures_total",
		Help: "Total number of chapter images that failed and were stored empty.",
	})
)
