package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"memberhub/internal/adapters/storage"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/metrics"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Upload folders
const (
	FolderReceipts = "receipts"
)

// UploadService stores validated files in the configured object store
type UploadService struct {
	store   storage.Store
	metrics *metrics.Registry
	now     func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(store storage.Store, m *metrics.Registry) *UploadService {
	return &UploadService{
		store:   store,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// UploadedFile describes a stored object
type UploadedFile struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Upload writes body under <folder>/<yyyy>/<mm>/<uuid><ext> and returns its
// public URL
func (s *UploadService) Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*UploadedFile, error) {
	key := s.objectKey(folder, filename, contentType)

	opts := &storage.PutOptions{
		ContentType: contentType,
		Size:        size,
	}
	if err := s.store.Put(ctx, key, body, opts); err != nil {
		logger.Error("Failed to store upload", "key", key, "error", err)
		return nil, domain.NewInternalError("Failed to upload file", err)
	}

	s.metrics.FilesUploaded.WithLabelValues(folder).Inc()
	logger.Info("File uploaded", "key", key, "size", size)

	return &UploadedFile{
		Key:         key,
		URL:         s.store.URL(key),
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Remove deletes a stored object. Missing objects are not an error.
func (s *UploadService) Remove(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return domain.NewInternalError("Failed to delete file", err)
	}
	return nil
}

func (s *UploadService) objectKey(folder, filename, contentType string) string {
	now := s.now()
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if m := mimetype.Lookup(contentType); m != nil {
			ext = m.Extension()
		}
	}
	return fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.New().String(), ext)
}
