// Package storage puts uploaded files somewhere a browser can fetch them.
package storage

import (
	"context"
	"fmt"
	"io"

	"memberhub/internal/config"
)

// PutOptions carries object metadata
type PutOptions struct {
	ContentType string
	Size        int64
}

// Store writes objects under slash separated keys
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, opts *PutOptions) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalPath, cfg.LocalURL)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
