// Package storage persists rendered images and builds their public URLs.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/youruser/templatecomposer/internal/config"
)

// Store is an object store for rendered images.
type Store interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// PublicURL returns the URL under which key is served.
	PublicURL(key string) string
}

// ValidKey rejects keys that would escape the bucket or directory.
func ValidKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("invalid object key %q", key)
	}
	if path.Base(key) != key || strings.ContainsRune(key, '\\') {
		return fmt.Errorf("invalid object key %q: must not be a path", key)
	}
	return nil
}

func publicURL(base, key string) string {
	return base + url.PathEscape(key)
}

// New builds the store selected by cfg.StorageType.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Store, error) {
	fields := logrus.Fields{"storageType": cfg.StorageType}

	var (
		store Store
		err   error
	)
	switch cfg.StorageType {
	case config.StorageS3:
		fields["bucket"] = cfg.S3Bucket
		fields["endpoint"] = cfg.S3Endpoint
		store, err = NewS3Store(ctx, cfg)
	case config.StorageFilesystem:
		fields["basePath"] = cfg.LocalStoragePath
		store, err = NewFileStore(cfg.LocalStoragePath, cfg.PublicBaseURL)
	default:
		fields["storageType"] = config.StorageMemory
		store = NewMemoryStore(cfg.PublicBaseURL)
	}
	if err != nil {
		return nil, err
	}
	log.WithFields(fields).Info("use storage")
	return store, nil
}
