package playback

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/storage"
)

// FFplayPlayer implements Player by writing the clip to a temporary WAV file
// and running ffplay without a window.
type FFplayPlayer struct {
	ffplayPath string
	store      storage.Storage
	logger     *slog.Logger
}

// Verify interface implementation at compile time.
var _ Player = (*FFplayPlayer)(nil)

// NewFFplayPlayer creates a new FFplayPlayer.
// If ffplayPath is empty, it defaults to "ffplay" (found in PATH).
func NewFFplayPlayer(ffplayPath string, store storage.Storage, logger *slog.Logger) *FFplayPlayer {
	if ffplayPath == "" {
		ffplayPath = "ffplay"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFplayPlayer{
		ffplayPath: ffplayPath,
		store:      store,
		logger:     logger,
	}
}

// Play implements Player.Play.
func (p *FFplayPlayer) Play(ctx context.Context, buf *audio.Buffer) *Task {
	task := Go(ctx, func(ctx context.Context) error {
		return p.play(ctx, buf)
	})

	p.logger.Info("playback started",
		slog.String("task_id", task.ID()),
		slog.Int64("duration_ms", buf.DurationMs),
	)

	go func() {
		<-task.Done()
		if err := task.Err(); err != nil {
			p.logger.Error("playback failed",
				slog.String("task_id", task.ID()),
				slog.String("error", err.Error()),
			)
			return
		}
		p.logger.Debug("playback finished", slog.String("task_id", task.ID()))
	}()

	return task
}

func (p *FFplayPlayer) play(ctx context.Context, buf *audio.Buffer) error {
	if buf.IsEmpty() {
		return nil
	}

	f, err := p.store.CreateTemp(ctx, "play-*.wav")
	if err != nil {
		return fmt.Errorf("create clip file: %w", err)
	}
	clip := f.Name()
	defer func() { _ = p.store.CleanupTemp(ctx, []string{clip}) }()

	err = audio.WriteWAV(f, buf)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write clip: %w", err)
	}

	args := []string{
		"-nodisp",   // No video window
		"-autoexit", // Exit when the clip ends
		"-loglevel", "error",
		clip,
	}

	// #nosec G204 - ffplayPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffplayPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffplay error: %w, stderr: %s", err, stderr.String())
	}

	p.logger.Debug("ffplay exited",
		slog.String("clip", clip),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
