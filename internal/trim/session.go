package trim

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/playback"
	"github.com/maauso/audiotrim/internal/waveform"
)

// State is the session lifecycle state.
type State string

const (
	// StateEmpty means no file has been loaded yet.
	StateEmpty State = "EMPTY"
	// StateLoaded means a buffer is available for preview and export.
	StateLoaded State = "LOADED"
)

// Status messages shown by the presentation layer.
const (
	StatusNoAudio  = "No audio loaded"
	StatusExported = "Exported Successfully!"
)

// Session owns the loaded buffer, the selected range and the display
// waveform for one user. It is driven from a single goroutine and does no
// locking.
type Session struct {
	decoder    audio.Decoder
	controller *Controller
	logger     *slog.Logger

	maxPoints     int
	defaultFormat audio.Format

	state    State
	buffer   *audio.Buffer
	rng      Range
	points   waveform.Points
	status   string
	lastTask *playback.Task
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWaveformPoints sets the display budget for the waveform.
func WithWaveformPoints(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxPoints = n
		}
	}
}

// WithDefaultFormat sets the format used when Export is given neither a path
// nor a format.
func WithDefaultFormat(f audio.Format) SessionOption {
	return func(s *Session) {
		if f.IsValid() {
			s.defaultFormat = f
		}
	}
}

// NewSession creates an empty session.
func NewSession(decoder audio.Decoder, controller *Controller, logger *slog.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		decoder:       decoder,
		controller:    controller,
		logger:        logger,
		maxPoints:     waveform.DefaultMaxPoints,
		defaultFormat: audio.FormatMP3,
		state:         StateEmpty,
		rng:           NewRange(),
		points:        waveform.Points{},
		status:        StatusNoAudio,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load decodes path and makes it the current buffer.
//
// On failure nothing changes: a previously loaded buffer, its range and its
// waveform stay in place. On success the range resets to the full buffer.
func (s *Session) Load(ctx context.Context, path string) error {
	buf, err := s.decoder.Decode(ctx, path)
	if err != nil {
		s.logger.Warn("load failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.buffer = buf
	s.rng.Reset()
	s.points = waveform.Sample(buf, s.maxPoints)
	s.state = StateLoaded
	s.status = "Loaded: " + filepath.Base(path)

	s.logger.Info("audio loaded",
		slog.String("path", path),
		slog.Int64("duration_ms", buf.DurationMs),
		slog.Int("sample_rate", buf.Format.SampleRate),
		slog.Int("channels", buf.Format.NumChannels),
		slog.Int("waveform_points", len(s.points)),
	)
	return nil
}

// SetStart moves the range start.
func (s *Session) SetStart(pct int) {
	s.rng.SetStart(pct)
}

// SetEnd moves the range end.
func (s *Session) SetEnd(pct int) {
	s.rng.SetEnd(pct)
}

// Play previews the current selection. It returns nil without a buffer.
func (s *Session) Play(ctx context.Context) *playback.Task {
	task := s.controller.Preview(ctx, s.buffer, s.rng)
	if task != nil {
		s.lastTask = task
	}
	return task
}

// Export writes the current selection. With no buffer loaded it is a no-op.
//
// An empty dst uses DefaultExportPath with the session's default format
// extension. An empty format is inferred from dst.
func (s *Session) Export(ctx context.Context, dst string, format audio.Format) (ExportResult, error) {
	if s.buffer == nil {
		return ExportResult{}, nil
	}
	if dst == "" {
		f := s.defaultFormat
		if format != "" {
			f = format
		}
		dst = strings.TrimSuffix(DefaultExportPath, filepath.Ext(DefaultExportPath)) + f.Ext()
	}

	result, err := s.controller.Export(ctx, s.buffer, s.rng, dst, format)
	if result.Path != "" {
		// The file exists even if publishing failed.
		s.status = StatusExported
	}
	return result, err
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Buffer returns the loaded buffer, or nil.
func (s *Session) Buffer() *audio.Buffer { return s.buffer }

// Range returns a copy of the current selection.
func (s *Session) Range() Range { return s.rng }

// Waveform returns the display points for the loaded buffer.
func (s *Session) Waveform() waveform.Points { return s.points }

// Status returns the text the presentation layer should show.
func (s *Session) Status() string { return s.status }

// LastTask returns the most recent playback task, or nil.
func (s *Session) LastTask() *playback.Task { return s.lastTask }

// Boundaries returns the current selection in milliseconds. Both are zero
// when nothing is loaded.
func (s *Session) Boundaries() (startMs, endMs int64) {
	if s.buffer == nil {
		return 0, 0
	}
	return ComputeBoundaries(s.buffer.DurationMs, s.rng)
}
