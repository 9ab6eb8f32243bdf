package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// exportFileMode is applied to finished exports; the partial file starts as 0600.
const exportFileMode os.FileMode = 0o644

// FFmpegCodec implements Codec. PCM WAV is handled natively; every other
// container goes through the ffmpeg CLI and an intermediate WAV file.
type FFmpegCodec struct {
	ffmpegPath string
	bitrate    string
	temp       TempFiles
	logger     *slog.Logger
}

// FFmpegOption configures an FFmpegCodec.
type FFmpegOption func(*FFmpegCodec)

// WithBitrate sets the bitrate used for lossy formats, e.g. "192k".
func WithBitrate(bitrate string) FFmpegOption {
	return func(c *FFmpegCodec) {
		if bitrate != "" {
			c.bitrate = bitrate
		}
	}
}

// WithLogger sets the logger used for codec diagnostics.
func WithLogger(logger *slog.Logger) FFmpegOption {
	return func(c *FFmpegCodec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewFFmpegCodec creates a new FFmpegCodec.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found in PATH).
func NewFFmpegCodec(ffmpegPath string, temp TempFiles, opts ...FFmpegOption) *FFmpegCodec {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	c := &FFmpegCodec{
		ffmpegPath: ffmpegPath,
		bitrate:    "192k",
		temp:       temp,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify interface implementation at compile time.
var _ Codec = (*FFmpegCodec)(nil)

// Decode implements Decoder.Decode.
func (c *FFmpegCodec) Decode(ctx context.Context, path string) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &DecodeError{Path: path, Err: ErrFileNotFound}
		}
		return nil, &DecodeError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}

	if strings.EqualFold(filepath.Ext(path), FormatWAV.Ext()) {
		buf, err := c.readWAVFile(path, path)
		if err == nil {
			c.logger.Debug("decoded wav natively",
				slog.String("path", path),
				slog.Int64("duration_ms", buf.DurationMs),
			)
			return buf, nil
		}
		c.logger.Debug("native wav decode failed, falling back to ffmpeg",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	buf, err := c.transcodeToPCM(ctx, path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return buf, nil
}

// transcodeToPCM converts any ffmpeg-readable file to 16-bit WAV and reads it back.
// Sample rate and channel count are preserved.
func (c *FFmpegCodec) transcodeToPCM(ctx context.Context, path string) (*Buffer, error) {
	tmp, err := c.temp.CreateTemp(ctx, "decode-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = c.temp.CleanupTemp(context.WithoutCancel(ctx), []string{tmpPath}) }()

	args := []string{
		"-y",                // Overwrite the temp file
		"-i", path,          // Input file
		"-vn",               // Drop cover art and video streams
		"-c:a", "pcm_s16le", // 16-bit little endian PCM
		"-f", "wav",
		tmpPath,
	}
	if err := c.runFFmpeg(ctx, args); err != nil {
		return nil, err
	}

	return c.readWAVFile(tmpPath, path)
}

func (c *FFmpegCodec) readWAVFile(path, sourcePath string) (*Buffer, error) {
	f, err := os.Open(path) // #nosec G304 - path is chosen by the user or created by us
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadWAV(f, sourcePath)
}

// Encode implements Encoder.Encode.
//
// Output is written to a hidden file next to dst and renamed into place only
// after the encoder succeeds, so a failed export never leaves a truncated file.
func (c *FFmpegCodec) Encode(ctx context.Context, buf *Buffer, dst string, format Format) error {
	if !format.IsValid() {
		return &EncodeError{Path: dst, Format: format, Err: ErrUnsupportedFormat}
	}
	if buf == nil {
		return &EncodeError{Path: dst, Format: format, Err: errors.New("nil buffer")}
	}

	partial, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".partial-*"+format.Ext())
	if err != nil {
		return &EncodeError{Path: dst, Format: format, Err: fmt.Errorf("create output: %w", err)}
	}
	partialPath := partial.Name()

	if format == FormatWAV {
		err = WriteWAV(partial, buf)
		if closeErr := partial.Close(); err == nil {
			err = closeErr
		}
	} else {
		_ = partial.Close()
		err = c.encodeWithFFmpeg(ctx, buf, partialPath, format)
	}
	if err != nil {
		_ = os.Remove(partialPath)
		return &EncodeError{Path: dst, Format: format, Err: err}
	}

	if err := os.Chmod(partialPath, exportFileMode); err != nil {
		_ = os.Remove(partialPath)
		return &EncodeError{Path: dst, Format: format, Err: fmt.Errorf("set output mode: %w", err)}
	}
	if err := os.Rename(partialPath, dst); err != nil {
		_ = os.Remove(partialPath)
		return &EncodeError{Path: dst, Format: format, Err: fmt.Errorf("move output into place: %w", err)}
	}

	c.logger.Debug("encoded audio",
		slog.String("path", dst),
		slog.String("format", string(format)),
		slog.Int64("duration_ms", buf.DurationMs),
	)
	return nil
}

// encodeWithFFmpeg writes buf to a temp WAV and has ffmpeg convert it to output.
func (c *FFmpegCodec) encodeWithFFmpeg(ctx context.Context, buf *Buffer, output string, format Format) error {
	tmp, err := c.temp.CreateTemp(ctx, "encode-*.wav")
	if err != nil {
		return fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = c.temp.CleanupTemp(context.WithoutCancel(ctx), []string{tmpPath}) }()

	err = WriteWAV(tmp, buf)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write temp wav: %w", err)
	}

	return c.runFFmpeg(ctx, c.encodeArgs(tmpPath, output, format))
}

// encodeArgs builds the ffmpeg arguments for converting a WAV input to format.
func (c *FFmpegCodec) encodeArgs(input, output string, format Format) []string {
	args := []string{
		"-y",        // Overwrite the partial file we created
		"-i", input, // Input file
	}

	switch format {
	case FormatMP3:
		args = append(args, "-c:a", "libmp3lame", "-b:a", c.bitrate, "-f", "mp3")
	case FormatOGG:
		args = append(args, "-c:a", "libvorbis", "-b:a", c.bitrate, "-f", "ogg")
	case FormatFLAC:
		args = append(args, "-c:a", "flac", "-f", "flac")
	case FormatWAV:
		args = append(args, "-c:a", "pcm_s16le", "-f", "wav")
	}

	return append(args, output)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (c *FFmpegCodec) runFFmpeg(ctx context.Context, args []string) error {
	args = append([]string{"-hide_banner", "-loglevel", "error"}, args...)

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
