package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// localUploader writes files under a directory served at urlPrefix. It is
// used when no object store is configured.
type localUploader struct {
	dir       string
	urlPrefix string
}

func NewLocalUploader(dir, urlPrefix string) (FileUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", dir, err)
	}
	return &localUploader{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (u *localUploader) pathFor(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid upload key %q", key)
	}
	return filepath.Join(u.dir, filepath.FromSlash(clean)), nil
}

func (u *localUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	dst, err := u.pathFor(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for %s: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(dst)
		return nil, fmt.Errorf("failed to write file for %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file for %s: %w", key, err)
	}

	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *localUploader) Delete(ctx context.Context, key string) error {
	dst, err := u.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file for %s: %w", key, err)
	}
	return nil
}

func (u *localUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return u.urlPrefix + path.Clean("/"+key)
}
