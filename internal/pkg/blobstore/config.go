package blobstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

// Config holds blob storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN/public base for returned URLs
}

// LoadConfig loads blob storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   strings.TrimRight(env.GetEnv("S3_PUBLIC_BASE_URL", ""), "/"),
	}

	if config.AccessKeyID == "" {
		return nil, errors.New("S3_ACCESS_KEY_ID is required")
	}
	if config.SecretAccessKey == "" {
		return nil, errors.New("S3_SECRET_ACCESS_KEY is required")
	}
	if config.BucketName == "" {
		return nil, errors.New("S3_BUCKET_NAME is required")
	}

	return config, nil
}

// ObjectURL builds the public URL for a stored object key.
func (c *Config) ObjectURL(key string) string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL + "/" + key
	}
	if c.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.EndpointURL, "/"), c.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, key)
}
