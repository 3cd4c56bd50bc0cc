package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/Keerthana22gh/pg-management-system/pkg/config"
)

// S3Store implements BlobStore on an S3-compatible endpoint
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store creates an S3 client from the storage settings
func NewS3Store(cfg config.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}

	return &S3Store{
		client:  s3.New(opts),
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg, opts.Region),
	}, nil
}

func publicBaseURL(cfg config.StorageConfig, region string) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		endpoint := strings.TrimRight(cfg.Endpoint, "/")
		if cfg.UsePathStyle {
			return endpoint + "/" + cfg.Bucket
		}
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			u.Host = cfg.Bucket + "." + u.Host
			return u.String()
		}
		return endpoint + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

// Upload puts body at key
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing object is not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL the object is served from
func (s *S3Store) PublicURL(key string) string {
	return s.baseURL + "/" + escapeKey(key)
}

// HealthCheck verifies the bucket is reachable
func (s *S3Store) HealthCheck(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}
	return nil
}
