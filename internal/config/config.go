package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Database (PostgreSQL)
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"storybook"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNECTIONS" default:"10"`

	// JWT Settings
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"` // 7 days

	// Text generation (OpenAI-compatible API)
	AIAPIKey  string `envconfig:"AI_API_KEY" required:"true"`
	AIModel   string `envconfig:"AI_MODEL" default:"google/gemini-2.0-flash-001"`
	AIBaseURL string `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AITimeout int    `envconfig:"AI_TIMEOUT" default:"120"`

	// Image generation (prediction-style HTTP API)
	ImageAPIToken string `envconfig:"IMAGE_API_TOKEN" required:"true"`
	ImageBaseURL  string `envconfig:"IMAGE_BASE_URL" default:"https://api.replicate.com/v1"`
	ImageModel    string `envconfig:"IMAGE_MODEL" default:"black-forest-labs/flux-1.1-pro"`
	ImageTimeout  int    `envconfig:"IMAGE_TIMEOUT" default:"120"`

	// Object storage (S3-compatible) for re-hosting generated images
	StorageEndpoint  string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	StorageAccessKey string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	StorageSecretKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	StorageBucket    string `envconfig:"STORAGE_BUCKET" default:"storybook-images"`
	StorageUseSSL    bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	StoragePublicURL string `envconfig:"STORAGE_PUBLIC_URL" default:""`

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// DatabaseURL builds the postgres connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig loads configuration from the environment, optionally reading
// an .env file first.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	return &cfg, nil
}
