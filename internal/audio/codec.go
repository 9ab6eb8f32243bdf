package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrDecode is matched by every DecodeError.
	ErrDecode = errors.New("decode failed")
	// ErrEncode is matched by every EncodeError.
	ErrEncode = errors.New("encode failed")
	// ErrFileNotFound is wrapped by DecodeError when the source path does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// Decoder turns a file on disk into a Buffer.
type Decoder interface {
	// Decode reads the whole file at path. Failures are returned as *DecodeError.
	Decode(ctx context.Context, path string) (*Buffer, error)
}

// Encoder writes a Buffer to disk.
type Encoder interface {
	// Encode writes buf to dst in the given format. Failures are returned as
	// *EncodeError and leave no file at dst.
	Encode(ctx context.Context, buf *Buffer, dst string, format Format) error
}

// Codec is both a Decoder and an Encoder.
type Codec interface {
	Decoder
	Encoder
}

// TempFiles provides scratch files for intermediate WAV data.
type TempFiles interface {
	// CreateTemp creates a new temporary file whose name matches pattern.
	CreateTemp(ctx context.Context, pattern string) (*os.File, error)
	// CleanupTemp removes the given temporary files.
	CleanupTemp(ctx context.Context, paths []string) error
}

// DecodeError reports a file that could not be loaded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) true for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// EncodeError reports an export that could not be written.
type EncodeError struct {
	Path   string
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrEncode) true for any EncodeError.
func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}
