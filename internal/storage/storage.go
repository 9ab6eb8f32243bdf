// Package storage provides scratch file handling for intermediate audio and
// optional S3 publishing of exported files.
package storage

import (
	"context"
	"io"
	"os"
)

// Storage defines the interface for temporary file handling.
// Implementations hand out scratch files for decode/encode intermediates
// and playback clips.
type Storage interface {
	// CreateTemp creates a new temporary file whose name matches pattern
	// (see os.CreateTemp). The caller closes the file and later removes it
	// with CleanupTemp.
	CreateTemp(ctx context.Context, pattern string) (*os.File, error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error
}

// Publisher uploads finished exports and returns where they can be fetched.
type Publisher interface {
	Publish(ctx context.Context, key string, data io.Reader) (url string, err error)
}
