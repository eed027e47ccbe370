package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/leadforge/site/internal/config"
)

// ObjectStore puts and removes uploaded objects.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

type s3Store struct {
	client    *s3.Client
	bucket    string
	endpoint  string
	region    string
	publicURL string
	pathStyle bool
}

// NewS3Store builds an S3-compatible store from the storage config.
func NewS3Store(cfg config.StorageConfig) (ObjectStore, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete storage config: bucket/access_key_id/secret_access_key are required")
	}
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &s3Store{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
		region:    cfg.Region,
		publicURL: cfg.PublicURL,
		pathStyle: cfg.PathStyle,
	}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

func (s *s3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *s3Store) objectURL(key string) string {
	return objectURL(s.publicURL, s.endpoint, s.region, s.bucket, key, s.pathStyle)
}

// objectURL prefers the configured public base, then the endpoint, then the
// AWS virtual-hosted address.
func objectURL(publicURL, endpoint, region, bucket, key string, pathStyle bool) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/") + "/" + key
	}
	if endpoint != "" {
		base := strings.TrimRight(endpoint, "/")
		if pathStyle {
			return base + "/" + bucket + "/" + key
		}
		scheme, host, found := strings.Cut(base, "://")
		if !found {
			return "https://" + bucket + "." + base + "/" + key
		}
		return scheme + "://" + bucket + "." + host + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
