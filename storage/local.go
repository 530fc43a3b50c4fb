package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes uploads below a directory that the API serves as static files.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	key = strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	path := filepath.Join(l.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	return l.baseURL + "/" + key, nil
}

func (l *Local) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok || key == "" {
		return nil
	}
	key = strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")

	if err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
