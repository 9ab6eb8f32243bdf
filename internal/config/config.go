// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/maauso/audiotrim/internal/audio"
)

// Static errors for configuration validation.
var (
	// ErrInvalidExportFormat is returned when EXPORT_FORMAT is not a known output format.
	ErrInvalidExportFormat = errors.New("config: EXPORT_FORMAT is not a supported format")
	// ErrInvalidWaveformPoints is returned when WAVEFORM_POINTS is not positive.
	ErrInvalidWaveformPoints = errors.New("config: WAVEFORM_POINTS must be positive")
)

// Config holds all configuration for the application.
type Config struct {
	// External tools
	FFmpegPath string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	FFplayPath string `env:"FFPLAY_PATH, default=ffplay" json:"ffplay_path"`

	// Storage settings
	TempDir string `env:"TEMP_DIR, default=/tmp/audiotrim" json:"temp_dir"`

	// Export settings
	ExportFormat  string `env:"EXPORT_FORMAT, default=mp3" json:"export_format" validate:"oneof=mp3 wav ogg flac"`
	ExportBitrate string `env:"EXPORT_BITRATE, default=192k" json:"export_bitrate"`

	// Display settings
	WaveformPoints int `env:"WAVEFORM_POINTS, default=1000" json:"waveform_points" validate:"min=1"`

	// Optional S3 settings for publishing exports
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	S3Prefix           string `env:"S3_PREFIX" json:"s3_prefix,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load() (*Config, error) {
	return LoadWithLookuper(envconfig.OsLookuper())
}

// LoadWithLookuper is like Load but reads values from the given lookuper.
func LoadWithLookuper(l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	switch verrs[0].Field() {
	case "ExportFormat":
		return fmt.Errorf("%w: %q", ErrInvalidExportFormat, c.ExportFormat)
	case "WaveformPoints":
		return ErrInvalidWaveformPoints
	default:
		return fmt.Errorf("config: %w", err)
	}
}

// DefaultFormat returns the parsed export format.
// It falls back to mp3 when the configured value is invalid.
func (c *Config) DefaultFormat() audio.Format {
	f, err := audio.ParseFormat(c.ExportFormat)
	if err != nil {
		return audio.FormatMP3
	}
	return f
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for machine parsing.
// Otherwise, it outputs human-readable text logs.
//
// Logs go to stderr so they do not interleave with shell output on stdout.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{FFmpegPath: %s, FFplayPath: %s, TempDir: %s, ExportFormat: %s, ExportBitrate: %s, WaveformPoints: %d, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.FFmpegPath,
		c.FFplayPath,
		c.TempDir,
		c.ExportFormat,
		c.ExportBitrate,
		c.WaveformPoints,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
