package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const storyPromptTemplate = `Your job is to write a kids story book.
The topic of the story is: %s
The story must have exactly %d chapters in an array format.

I need the response in JSON format with the following details:
- book title
- book cover description
- book chapters in an array format with each object containing story
subTitle, textContent, page and imageDescription to generate
a vibrant, cartoon-style illustration.

Here is an example of the JSON format:
{
  "bookTitle": "The Three Little Acorns learn about AI",
  "bookCoverDescription": "A vibrant, cartoon-style illustration of three little acorns learning about AI under a large oak tree",
  "chapters": [
    {
      "subTitle": "A Curious Acorn",
      "textContent": "Once upon a time, in a cozy oak tree, there were three little acorns...",
      "imageDescription": "A vibrant, cartoon-style illustration featuring a curious acorn looking up at a computer screen",
      "page": "1"
    }
  ]
}`

const storySystemPrompt = "You are an experienced children's book author. " +
	"You write warm, age-appropriate stories and always answer with a single JSON object."

// Client предоставляет интерфейс для работы с API нейросети.
type Client struct {
	client    *openai.Client
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

// Config содержит конфигурацию для клиента нейросети.
type Config struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Timeout   int
}

// New создает новый экземпляр клиента нейросети.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("AI API key is not set")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "google/gemini-2.0-flash-001"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:    openai.NewClientWithConfig(config),
		modelName: cfg.ModelName,
		timeout:   time.Duration(cfg.Timeout) * time.Second,
		logger:    logger.Named("AIClient"),
	}, nil
}

// GenerateStory asks the model for a storybook on the given subject with
// exactly chapterCount chapters and returns the raw response text.
// A single attempt is made; the caller owns the fallback policy.
func (c *Client) GenerateStory(ctx context.Context, subjectPrompt string, chapterCount int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: storySystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(storyPromptTemplate, subjectPrompt, chapterCount),
			},
		},
		Temperature: 0.7,
		MaxTokens:   8000,
		TopP:        0.95,
	}

	c.logger.Debug("Sending story generation request",
		zap.String("model", c.modelName),
		zap.Int("chapterCount", chapterCount))

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("Story generation request failed", zap.Error(err))
		return "", fmt.Errorf("story generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("Empty response from AI")
		return "", errors.New("empty response from AI")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("Story generation response received", zap.Int("length", len(content)))
	return content, nil
}
