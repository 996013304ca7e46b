package storage

import (
	"context"
	"fmt"

	infraconfig "github.com/billsync/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AttachmentReadWriter is the full storage surface used by the HTTP layer.
// The sync engine only needs the Fetch half.
type AttachmentReadWriter interface {
	Fetch(ctx context.Context, storageKey string) ([]byte, error)
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	Delete(ctx context.Context, storageKey string) error
}

// NewAttachmentStore creates an attachment store for the configured provider
func NewAttachmentStore(cfg *infraconfig.StorageConfig, logger *zap.Logger) (AttachmentReadWriter, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3AttachmentStore(cfg, WithLogger(logger))
	case "stub", "":
		return NewInMemoryAttachmentStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
