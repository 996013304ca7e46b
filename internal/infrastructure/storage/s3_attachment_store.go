// Package storage provides object storage implementations for payment
// request attachments.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	syncapp "github.com/billsync/backend/internal/application/sync"
	infraconfig "github.com/billsync/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound indicates the storage key does not exist in the bucket
var ErrObjectNotFound = errors.New("storage: object not found")

// maxAttachmentSize caps attachment downloads (25MB, the provider's
// attachment limit is below this)
const maxAttachmentSize = 25 * 1024 * 1024

// Ensure S3AttachmentStore implements the application port
var _ syncapp.AttachmentStore = (*S3AttachmentStore)(nil)

// S3AttachmentStore reads and writes attachment files in an S3-compatible
// bucket (AWS S3, MinIO, etc.)
type S3AttachmentStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// S3AttachmentStoreOption is a functional option for configuring S3AttachmentStore
type S3AttachmentStoreOption func(*S3AttachmentStore)

// WithLogger sets a custom logger for S3AttachmentStore
func WithLogger(logger *zap.Logger) S3AttachmentStoreOption {
	return func(s *S3AttachmentStore) {
		s.logger = logger
	}
}

// NewS3AttachmentStore creates a new S3AttachmentStore from configuration.
// It supports any S3-compatible storage backend.
func NewS3AttachmentStore(cfg *infraconfig.StorageConfig, opts ...S3AttachmentStoreOption) (*S3AttachmentStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	store := &S3AttachmentStore{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Fetch downloads the attachment bytes stored under the given key
func (s *S3AttachmentStore) Fetch(ctx context.Context, storageKey string) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) || strings.Contains(err.Error(), "NoSuchKey") {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storageKey)
		}
		return nil, fmt.Errorf("failed to fetch object %s: %w", storageKey, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(io.LimitReader(output.Body, maxAttachmentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", storageKey, err)
	}
	return data, nil
}

// Upload stores attachment bytes under the given key
func (s *S3AttachmentStore) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storageKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", storageKey, err)
	}
	s.logger.Debug("attachment uploaded",
		zap.String("storage_key", storageKey),
		zap.Int("size", len(data)))
	return nil
}

// Delete removes the attachment stored under the given key
func (s *S3AttachmentStore) Delete(ctx context.Context, storageKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", storageKey, err)
	}
	return nil
}

// GetBucket returns the configured bucket name
func (s *S3AttachmentStore) GetBucket() string {
	return s.bucket
}
