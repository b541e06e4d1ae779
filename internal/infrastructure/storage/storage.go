package storage

import (
	"context"
	"fmt"

	"github.com/dealership/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Storage saves an export under key and returns where it was written
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*S3Storage)(nil)
)

// New creates the backend selected by cfg.Backend. The S3 bucket is created
// when missing.
func New(ctx context.Context, cfg *config.ExportConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Backend {
	case config.ExportBackendS3:
		s3Storage, err := NewS3Storage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	case config.ExportBackendLocal, "":
		local, err := NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unknown export backend %q", cfg.Backend)
	}
}
