package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore is an ObjectStore rooted at a local directory. Used in
// dev mode when no S3 bucket is configured.
type FilesystemStore struct {
	rootDir string
}

// NewFilesystemStore creates the root directory if needed.
func NewFilesystemStore(rootDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &FilesystemStore{rootDir: rootDir}, nil
}

// resolve maps a key onto the root, rejecting traversal outside it.
func (s *FilesystemStore) resolve(key string) (string, error) {
	p := filepath.Join(s.rootDir, filepath.FromSlash(key))
	if !strings.HasPrefix(p, s.rootDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return p, nil
}

func (s *FilesystemStore) Put(ctx context.Context, key string, content io.Reader, contentType string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(p)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *FilesystemStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return f, nil
}

func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
