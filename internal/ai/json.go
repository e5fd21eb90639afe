package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"storybook-server/internal/models"
)

var (
	jsonBlockRegex = regexp.MustCompile("(?s)```json\\s*([\\s\\S]*?)\\s*```")
	anyBlockRegex  = regexp.MustCompile("(?s)```\\s*([\\s\\S]*?)\\s*```")
)

// ExtractJSONContent pulls a JSON payload out of a raw model response.
// Модели часто оборачивают JSON в fenced-блок или добавляют текст вокруг.
func ExtractJSONContent(rawText string) string {
	rawText = strings.TrimSpace(rawText)

	// 1. ```json ... ```
	if matches := jsonBlockRegex.FindStringSubmatch(rawText); len(matches) > 1 {
		if candidate := strings.TrimSpace(matches[1]); isValidJSON(candidate) {
			return candidate
		}
	}

	// 2. ``` ... ```
	if matches := anyBlockRegex.FindStringSubmatch(rawText); len(matches) > 1 {
		if candidate := strings.TrimSpace(matches[1]); isValidJSON(candidate) {
			return candidate
		}
	}

	// 3. Everything between the first '{' and the last '}'
	firstBrace := strings.Index(rawText, "{")
	lastBrace := strings.LastIndex(rawText, "}")
	if firstBrace != -1 && lastBrace > firstBrace {
		if candidate := rawText[firstBrace : lastBrace+1]; isValidJSON(candidate) {
			return candidate
		}
	}

	return rawText
}

func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}

// ParseStoryResponse unwraps and decodes a model response into a StoryBook,
// validating its shape: non-empty title, cover description and a chapters
// array. Anything else is treated as a generation failure by the caller.
func ParseStoryResponse(rawText string) (*models.StoryBook, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, errors.New("empty story response")
	}

	payload := ExtractJSONContent(rawText)

	var story storyResponse
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	if err := dec.Decode(&story); err != nil {
		return nil, errors.New("story response is not valid JSON")
	}

	if story.BookTitle == "" || story.BookCoverDescription == "" || story.Chapters == nil {
		return nil, errors.New("story response is missing required fields")
	}

	book := &models.StoryBook{
		BookTitle:            story.BookTitle,
		BookCoverDescription: story.BookCoverDescription,
		Chapters:             make([]models.StoryChapter, 0, len(story.Chapters)),
	}
	for _, ch := range story.Chapters {
		book.Chapters = append(book.Chapters, models.StoryChapter{
			SubTitle:         ch.SubTitle,
			TextContent:      ch.TextContent,
			ImageDescription: ch.ImageDescription,
			Page:             ch.Page.String(),
		})
	}
	return book, nil
}

// storyResponse mirrors the model's JSON shape. Page may legitimately come
// back as a number or a string, so it is decoded leniently.
type storyResponse struct {
	BookTitle            string                 `json:"bookTitle"`
	BookCoverDescription string                 `json:"bookCoverDescription"`
	Chapters             []storyChapterResponse `json:"chapters"`
}

type storyChapterResponse struct {
	SubTitle         string     `json:"subTitle"`
	TextContent      string     `json:"textContent"`
	ImageDescription string     `json:"imageDescription"`
	Page             lenientInt `json:"page"`
}

// lenientInt accepts "3", 3 and 3.0 and renders back as a plain string.
type lenientInt struct {
	raw string
}

func (l *lenientInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	l.raw = s
	return nil
}

func (l lenientInt) String() string {
	return l.raw
}
