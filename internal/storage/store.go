// Package storage provides key-addressed object stores for minted assets.
package storage

import (
	"context"
	"fmt"

	"notemint/internal/infra"
)

// ObjectStore persists objects under flat string keys.
type ObjectStore interface {
	// Exists reports whether key is present. A missing key is not an error.
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// Get returns domain.ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
}

// New builds the object store selected by cfg.StorageDriver.
func New(ctx context.Context, cfg infra.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case infra.StorageDriverS3:
		return NewS3Store(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.AWSRegion,
			Endpoint: cfg.S3Endpoint,
		})
	case infra.StorageDriverFilesystem:
		return NewFileStore(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
