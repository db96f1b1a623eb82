package storage

import (
	"fmt"

	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Both implementations satisfy the catalog storage interface.
var (
	_ catalogapp.ObjectStorageService = (*S3Storage)(nil)
	_ catalogapp.ObjectStorageService = (*StubStorage)(nil)
)

// New creates the object storage selected by configuration
func New(cfg config.StorageConfig, logger *zap.Logger) (catalogapp.ObjectStorageService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case "s3":
		logger.Info("using S3 object storage",
			zap.String("bucket", cfg.Bucket),
			zap.String("endpoint", cfg.Endpoint))
		return NewS3Storage(cfg, WithLogger(logger))
	case "stub":
		logger.Warn("using stub object storage; uploaded images are not actually stored")
		return NewStubStorage(cfg.Endpoint), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
