package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore persists uploads under a root directory and serves them from a
// configured base URL. It satisfies FileStore for local and test setups.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Upload(ctx context.Context, r io.Reader, path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(s.root, filepath.Clean("/"+path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.baseURL + "/" + strings.TrimLeft(path, "/"), nil
}

func (s *DiskStore) Delete(ctx context.Context, path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.root, filepath.Clean("/"+path))
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
