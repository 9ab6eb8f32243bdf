// Package bootstrap provides dependency initialization for audiotrim.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/config"
	"github.com/maauso/audiotrim/internal/playback"
	"github.com/maauso/audiotrim/internal/storage"
	"github.com/maauso/audiotrim/internal/trim"
)

// Dependencies holds all initialized dependencies for the shell.
type Dependencies struct {
	Session *trim.Session
	Storage storage.Storage
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, publisher, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	codec := audio.NewFFmpegCodec(cfg.FFmpegPath, store,
		audio.WithBitrate(cfg.ExportBitrate),
		audio.WithLogger(logger),
	)
	player := playback.NewFFplayPlayer(cfg.FFplayPath, store, logger)

	var ctrlOpts []trim.ControllerOption
	if publisher != nil {
		ctrlOpts = append(ctrlOpts, trim.WithPublisher(publisher))
	}
	controller := trim.NewController(codec, player, logger, ctrlOpts...)

	session := trim.NewSession(codec, controller, logger,
		trim.WithWaveformPoints(cfg.WaveformPoints),
		trim.WithDefaultFormat(cfg.DefaultFormat()),
	)

	return &Dependencies{
		Session: session,
		Storage: store,
	}, nil
}

// initStorage creates the scratch storage and, when S3 is configured, the
// publisher for finished exports.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, storage.Publisher, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 publishing configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)
	return localStore, nil, nil
}
