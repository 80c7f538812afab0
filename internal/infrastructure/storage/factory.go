package storage

import (
	"context"
	"fmt"

	"github.com/swissbill/backend/internal/infrastructure/config"
	"github.com/swissbill/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// NewArchive creates the archive selected by storage.backend. The s3
// backend makes sure its bucket exists before returning.
func NewArchive(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (printing.Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		return printing.NopArchive{}, nil
	}

	switch cfg.Backend {
	case "", "none":
		return printing.NopArchive{}, nil
	case "memory":
		return NewMemoryArchive(), nil
	case "filesystem":
		return printing.NewFileSystemArchive(&printing.FileSystemArchiveConfig{
			BasePath: cfg.BasePath,
			BaseURL:  cfg.BaseURL,
			Logger:   logger,
		})
	case "s3":
		archive, err := NewS3Archive(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
