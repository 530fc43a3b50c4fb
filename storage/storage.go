package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/junaidrashid-git/storefront-api/config"
)

// Store keeps uploaded images and hands back the URL clients load them from.
type Store interface {
	// Save writes the object under key and returns its public URL.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object behind a URL returned by Save. URLs the store does not own and
	// objects that are already gone are ignored.
	Delete(ctx context.Context, url string) error
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL), nil
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ObjectKey builds a unique key under folder that keeps a readable form of the upload's name.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	// Strip doubled extensions like "photo.jpg.jpg".
	for {
		e := strings.ToLower(filepath.Ext(base))
		if e == "" || !imageExts[e] {
			break
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, base)

	name := uuid.NewString()
	if base != "" {
		name += "_" + base
	}
	return strings.Trim(folder, "/") + "/" + name + ext
}
