package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONContent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "json fence",
			raw:  "Here you go:\n```json\n{\"a\": 1}\n```\nEnjoy!",
			want: `{"a": 1}`,
		},
		{
			name: "plain fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "braces in prose",
			raw:  "Sure thing! {\"a\": 1} hope that helps",
			want: `{"a": 1}`,
		},
		{
			name: "bare json",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "no json at all",
			raw:  "sorry, I cannot do that",
			want: "sorry, I cannot do that",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSONContent(tc.raw))
		})
	}
}

func TestParseStoryResponse(t *testing.T) {
	raw := "```json\n" + `{
		"bookTitle": "The Wise Old Owl",
		"bookCoverDescription": "an owl on a branch",
		"chapters": [
			{"subTitle": "One", "textContent": "Once upon a time", "imageDescription": "an owl", "page": 1},
			{"subTitle": "Two", "textContent": "The end", "imageDescription": "a nest", "page": "2"}
		]
	}` + "\n```"

	story, err := ParseStoryResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "The Wise Old Owl", story.BookTitle)
	assert.Equal(t, "an owl on a branch", story.BookCoverDescription)
	require.Len(t, story.Chapters, 2)
	// page приходит и числом, и строкой; наружу всегда строка.
	assert.Equal(t, "1", story.Chapters[0].Page)
	assert.Equal(t, "2", story.Chapters[1].Page)
}

func TestParseStoryResponseRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"not json", "once upon a time there was no JSON"},
		{"missing title", `{"bookCoverDescription": "x", "chapters": []}`},
		{"missing cover", `{"bookTitle": "x", "chapters": []}`},
		{"missing chapters", `{"bookTitle": "x", "bookCoverDescription": "y"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStoryResponse(tc.raw)
			require.Error(t, err)
		})
	}
}

func TestParseStoryResponseAcceptsEmptyChaptersArray(t *testing.T) {
	// Пустой массив проходит проверку формы; несоответствие числа глав
	// решается выше по стеку.
	story, err := ParseStoryResponse(`{"bookTitle": "x", "bookCoverDescription": "y", "chapters": []}`)
	require.NoError(t, err)
	assert.Empty(t, story.Chapters)
}
