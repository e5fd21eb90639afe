package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ImageStore re-hosts generated images in S3-compatible object storage and
// hands back stable public URLs.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// Config содержит конфигурацию для хранилища изображений.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the externally visible base URL for uploaded objects.
	// If empty, a URL is derived from the endpoint.
	PublicURL string
}

// NewImageStore connects to the object storage and ensures the bucket exists.
func NewImageStore(cfg Config, logger *zap.Logger) (*ImageStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		logger:    logger.Named("ImageStore"),
	}, nil
}

// Upload stores raw image bytes under a unique object name and returns the
// stable public URL.
func (s *ImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/webp"
	}
	objectName := fmt.Sprintf("img_%d_%s.webp", time.Now().UnixMilli(), uuid.NewString()[:8])

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("Failed to upload image", zap.String("object", objectName), zap.Error(err))
		return "", fmt.Errorf("put object: %w", err)
	}

	url := s.publicURL + "/" + objectName
	s.logger.Debug("Image uploaded", zap.String("object", objectName), zap.String("url", url))
	return url, nil
}
