package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youruser/templatecomposer/internal/util"
)

// FileStore writes objects as files in a local directory.
type FileStore struct {
	basePath string
	baseURL  string
}

func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	if err := util.EnsureDir(basePath); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath, baseURL: baseURL}, nil
}

// Put writes to a temp file and renames it so readers never see a partial image.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ValidKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.basePath, key)); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) PublicURL(key string) string {
	return publicURL(s.baseURL, key)
}
