package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrEmptyPath    = errors.New("storage path cannot be empty")
)

// FileStore is the opaque file storage collaborator: the rest of the
// service only consumes upload/delete and unique-name generation.
type FileStore interface {
	Upload(ctx context.Context, r io.Reader, path string) (string, error)
	Delete(ctx context.Context, path string) error
}

// GenerateUniqueFileName keeps the original extension and replaces the
// base name with a uuid so concurrent uploads never collide.
func GenerateUniqueFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}
