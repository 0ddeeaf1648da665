package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// DefaultMaxSize upload limit applied when none is configured
const DefaultMaxSize int64 = 5 << 20

var (
	// ErrFileTooLarge file exceeds the size limit
	ErrFileTooLarge = errors.New("file exceeds the maximum size of 5MB")
	// ErrInvalidContentType only images are accepted
	ErrInvalidContentType = errors.New("only image files are accepted")
)

// File an upload candidate
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStorage stores files and returns their public URL
type ObjectStorage interface {
	Upload(ctx context.Context, file *File, dir, ownerID string) (string, error)
}

// Validate check size and content type of the file
func Validate(file *File, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if file.Size > maxSize {
		return ErrFileTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return ErrInvalidContentType
	}
	return nil
}
