// Package uploads stores user-submitted images and hands back public
// URLs. Two backends exist: S3 (or any S3-compatible endpoint such as
// MinIO) for production and a local directory for dev mode.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("unsupported content type")

// ErrTooLarge is returned when the upload exceeds the configured limit.
var ErrTooLarge = errors.New("upload too large")

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 5 << 20

// imageExtensions maps accepted content types to the stored extension.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the backend an upload lands in.
type ObjectStore interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Service validates uploads, assigns keys, and writes to the backend.
type Service struct {
	store ObjectStore

	// publicBaseURL is the origin the stored objects are served from.
	publicBaseURL string
}

// NewService wraps an ObjectStore.
func NewService(store ObjectStore, publicBaseURL string) *Service {
	return &Service{store: store, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Result describes a stored upload.
type Result struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store validates and persists one image, returning its key and public
// URL. Keys are random, never derived from the client filename.
func (s *Service) Store(ctx context.Context, content io.Reader, contentType string, size int64) (*Result, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if size > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	key := path.Join("images", uuid.NewString()+ext)
	limited := io.LimitReader(content, MaxUploadBytes+1)
	if err := s.store.Put(ctx, key, limited, contentType); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	return &Result{
		Key: key,
		URL: fmt.Sprintf("%s/%s", s.publicBaseURL, key),
	}, nil
}

// Open returns the stored object for serving.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.store.Get(ctx, key)
}

// Remove deletes a stored object.
func (s *Service) Remove(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
