package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrImageGenerationFailed - ошибка при генерации изображения.
var ErrImageGenerationFailed = errors.New("image generation failed")

// Client calls a prediction-style image generation API and returns image
// URLs for text descriptions.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	token      string
	logger     *zap.Logger
}

// Config содержит конфигурацию для клиента генерации изображений.
type Config struct {
	BaseURL string
	Model   string
	Token   string
	Timeout int
}

// New создает новый экземпляр клиента генерации изображений.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("image API token is not set")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("image API base URL is not set")
	}
	if cfg.Model == "" {
		cfg.Model = "black-forest-labs/flux-1.1-pro"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		token:      cfg.Token,
		logger:     logger.Named("ImageGenClient"),
	}, nil
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt           string `json:"prompt"`
	AspectRatio      string `json:"aspect_ratio"`
	OutputFormat     string `json:"output_format"`
	OutputQuality    int    `json:"output_quality"`
	SafetyTolerance  int    `json:"safety_tolerance"`
	PromptUpsampling bool   `json:"prompt_upsampling"`
}

type predictionResponse struct {
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// GenerateImage asks the API to render the description and returns a
// single resolvable image URL. One attempt, no retries.
func (c *Client) GenerateImage(ctx context.Context, descriptionText string) (string, error) {
	log := c.logger.With(zap.String("model", c.model))

	reqPayload := predictionRequest{
		Input: predictionInput{
			Prompt:           descriptionText,
			AspectRatio:      "1:1",
			OutputFormat:     "webp",
			OutputQuality:    80,
			SafetyTolerance:  2,
			PromptUpsampling: true,
		},
	}
	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	endpointURL := fmt.Sprintf("%s/models/%s/predictions", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	// Блокирующий режим: ответ приходит только после завершения генерации.
	req.Header.Set("Prefer", "wait")

	log.Debug("Sending prediction request", zap.String("url", endpointURL))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Prediction request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("Prediction API returned non-OK status",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", bodyBytes))
		return "", fmt.Errorf("%w: API returned status %d", ErrImageGenerationFailed, resp.StatusCode)
	}
	if readErr != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", ErrImageGenerationFailed, readErr)
	}

	var prediction predictionResponse
	if err := json.Unmarshal(bodyBytes, &prediction); err != nil {
		return "", fmt.Errorf("%w: invalid response JSON: %v", ErrImageGenerationFailed, err)
	}
	if prediction.Error != "" {
		log.Error("Prediction API reported an error", zap.String("error", prediction.Error))
		return "", fmt.Errorf("%w: %s", ErrImageGenerationFailed, prediction.Error)
	}

	imageURL, err := NormalizeOutput(prediction.Output)
	if err != nil {
		log.Error("Failed to normalize prediction output", zap.Error(err))
		return "", err
	}

	log.Debug("Image URL extracted", zap.String("url", imageURL))
	return imageURL, nil
}

// FetchImage downloads the image bytes from a URL produced by the API.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch generated image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("image fetch returned empty body")
	}
	return data, nil
}
