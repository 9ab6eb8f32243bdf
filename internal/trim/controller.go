package trim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/playback"
	"github.com/maauso/audiotrim/internal/storage"
)

// DefaultExportPath is used when the caller does not name a destination.
const DefaultExportPath = "trimmed_audio.mp3"

// ErrPublish wraps failures uploading an export that was written locally.
var ErrPublish = errors.New("publish export")

// ExportResult describes a finished export.
type ExportResult struct {
	Path       string
	Format     audio.Format
	StartMs    int64
	EndMs      int64
	DurationMs int64
	// URL is set when the export was also published.
	URL string
}

// ComputeBoundaries converts a percentage range to millisecond offsets
// using truncating integer division.
func ComputeBoundaries(durationMs int64, r Range) (startMs, endMs int64) {
	startMs = durationMs * int64(r.Start()) / 100
	endMs = durationMs * int64(r.End()) / 100
	return startMs, endMs
}

// Controller turns a buffer and a range into playback or an exported file.
// A nil buffer makes every operation a silent no-op.
type Controller struct {
	encoder   audio.Encoder
	player    playback.Player
	publisher storage.Publisher
	logger    *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPublisher uploads every successful export through p.
func WithPublisher(p storage.Publisher) ControllerOption {
	return func(c *Controller) {
		c.publisher = p
	}
}

// NewController creates a new Controller.
func NewController(encoder audio.Encoder, player playback.Player, logger *slog.Logger, opts ...ControllerOption) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		encoder: encoder,
		player:  player,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Preview starts playback of the selected segment and returns its task
// without waiting. It returns nil when no buffer is loaded.
//
// Calling Preview again while a task is playing starts a second, overlapping
// playback.
func (c *Controller) Preview(ctx context.Context, buf *audio.Buffer, r Range) *playback.Task {
	if buf == nil {
		return nil
	}

	startMs, endMs := ComputeBoundaries(buf.DurationMs, r)
	segment := buf.Slice(startMs, endMs)

	c.logger.Debug("previewing segment",
		slog.Int64("start_ms", startMs),
		slog.Int64("end_ms", endMs),
	)
	return c.player.Play(ctx, segment)
}

// Export writes the selected segment to dst. An empty dst means
// DefaultExportPath and an empty format is inferred from dst's extension.
//
// With no buffer loaded it does nothing and returns a zero result.
// Encoder failures are returned as *audio.EncodeError. If publishing fails
// the local file is kept and the error wraps ErrPublish.
func (c *Controller) Export(ctx context.Context, buf *audio.Buffer, r Range, dst string, format audio.Format) (ExportResult, error) {
	if buf == nil {
		return ExportResult{}, nil
	}
	if dst == "" {
		dst = DefaultExportPath
	}
	if format == "" {
		format = audio.FormatFromPath(dst)
	}

	startMs, endMs := ComputeBoundaries(buf.DurationMs, r)
	segment := buf.Slice(startMs, endMs)

	if err := c.encoder.Encode(ctx, segment, dst, format); err != nil {
		c.logger.Error("export failed",
			slog.String("path", dst),
			slog.String("format", string(format)),
			slog.String("error", err.Error()),
		)
		return ExportResult{}, err
	}

	result := ExportResult{
		Path:       dst,
		Format:     format,
		StartMs:    startMs,
		EndMs:      endMs,
		DurationMs: segment.DurationMs,
	}

	c.logger.Info("exported segment",
		slog.String("path", dst),
		slog.String("format", string(format)),
		slog.Int64("start_ms", startMs),
		slog.Int64("end_ms", endMs),
	)

	if c.publisher != nil {
		url, err := c.publish(ctx, dst)
		if err != nil {
			c.logger.Warn("publish failed",
				slog.String("path", dst),
				slog.String("error", err.Error()),
			)
			return result, fmt.Errorf("%w: %w", ErrPublish, err)
		}
		result.URL = url
		c.logger.Info("export published", slog.String("url", url))
	}

	return result, nil
}

func (c *Controller) publish(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 - path was just written by the encoder
	if err != nil {
		return "", fmt.Errorf("open export: %w", err)
	}
	defer func() { _ = f.Close() }()

	return c.publisher.Publish(ctx, filepath.Base(path), f)
}
