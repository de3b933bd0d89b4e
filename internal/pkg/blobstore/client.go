package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Client wraps the S3 client for uploaded reference photos. Uploads are a
// validated pass-through; no image processing happens locally.
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient creates a blob storage client from config
func NewClient(cfg *Config) (*Client, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible providers need path-style URLs.
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	fiberlog.Infof("[BlobStore] initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

// NewClientFromEnv creates a blob storage client from environment config.
func NewClientFromEnv() (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

func (c *Client) testConnection() error {
	_, err := c.s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(c.config.BucketName),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.BucketName, err)
	}
	return nil
}

// UploadKey builds the object key for an upload: a timestamp plus a random
// suffix so concurrent uploads of the same filename never collide. The
// filename is client-controlled and may carry path separators; only its
// base name reaches the key.
func UploadKey(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("uploads/%d-%s-%s%s", time.Now().Unix(), name, uuid.NewString()[:8], ext)
}

// Upload streams an object to the bucket and returns its public URL.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := c.s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return c.config.ObjectURL(key), nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
