// Package storage writes exported report files to object storage or local disk.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dealership/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3Storage stores exports in any S3-compatible bucket (AWS S3, MinIO, RustFS)
type S3Storage struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// S3StorageOption is a functional option for configuring S3Storage
type S3StorageOption func(*S3Storage)

// WithLogger sets a custom logger for S3Storage
func WithLogger(logger *zap.Logger) S3StorageOption {
	return func(s *S3Storage) {
		s.logger = logger
	}
}

// NewS3Storage creates an S3Storage from export configuration.
// Without static keys the default AWS credential chain is used.
func NewS3Storage(ctx context.Context, cfg *config.ExportConfig, opts ...S3StorageOption) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	storage := &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage, nil
}

// normalizeEndpoint adds a scheme to custom endpoints. An empty endpoint means AWS.
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating export bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Save uploads data under key and returns its s3:// location
func (s *S3Storage) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Export uploaded", zap.String("bucket", s.bucket), zap.String("key", key))
	return s.Location(key), nil
}

// Location returns the s3:// URI of key
func (s *S3Storage) Location(key string) string {
	return "s3://" + s.bucket + "/" + strings.TrimPrefix(key, "/")
}

// Bucket returns the bucket name
func (s *S3Storage) Bucket() string {
	return s.bucket
}
