package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mediwallet/internal/analysis"
	"mediwallet/internal/assets"
	"mediwallet/internal/config"
	"mediwallet/internal/domain"
	"mediwallet/internal/security"
	"mediwallet/internal/service"
	"mediwallet/internal/store"
	"mediwallet/internal/store/postgres"
	"mediwallet/internal/store/sqlite"
)

type repositories struct {
	records  domain.TestResultRepository
	settings domain.SettingsRepository
	messages domain.MessageRepository
	shares   domain.ShareRepository
}

func openStore(cfg *config.Config, logger *slog.Logger) (*store.Conn, repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		conn := sqlite.NewConn(cfg.Database.Path, logger)
		return conn, repositories{
			records:  sqlite.NewTestResultRepo(conn),
			settings: sqlite.NewSettingsRepo(conn),
			messages: sqlite.NewMessageRepo(conn),
			shares:   sqlite.NewShareRepo(conn),
		}, nil
	case config.DriverPostgres:
		conn := postgres.NewConn(cfg.Database.URL, logger)
		return conn, repositories{
			records:  postgres.NewTestResultRepo(conn),
			settings: postgres.NewSettingsRepo(conn),
			messages: postgres.NewMessageRepo(conn),
			shares:   postgres.NewShareRepo(conn),
		}, nil
	}
	return nil, repositories{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

// NativeFromConfig returns a builder wiring the native backend from cfg.
// The database is opened lazily; call Initialize on the result.
func NativeFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) NativeBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return func() (domain.Backend, error) {
		conn, repos, err := openStore(cfg, logger)
		if err != nil {
			return nil, err
		}

		assetOpts := []assets.Option{assets.WithLogger(logger)}
		if cfg.Assets.S3Bucket != "" {
			mirror, err := assets.NewS3MirrorFromEnv(ctx, cfg.Assets.S3Bucket, cfg.Assets.S3Prefix)
			if err != nil {
				return nil, err
			}
			assetOpts = append(assetOpts, assets.WithMirror(mirror))
			logger.Info("mirroring assets to s3", "bucket", cfg.Assets.S3Bucket)
		}
		images := assets.NewManager(cfg.Assets.Dir, assetOpts...)

		records := service.NewRecordService(repos.records, images, logger)
		settings := service.NewSettingsService(repos.settings)
		messages := service.NewMessageService(repos.messages, logger)
		tokens := security.NewShareTokens(cfg.Share.Secret, time.Now)
		shares := service.NewShareService(repos.shares, repos.records, tokens, cfg.Share.MaxDuration, logger)
		analyzer := analysis.NewClient(cfg.AI.Timeout, cfg.AI.StubMode)
		analyses := service.NewAnalysisService(records, repos.settings, analyzer)

		return service.NewNative(conn, records, settings, messages, shares, analyses), nil
	}
}

// Open resolves and initializes the backend described by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Backend, error) {
	backend, err := Resolve(Capabilities{LocalStorage: cfg.Platform.LocalStorage}, NativeFromConfig(ctx, cfg, logger), logger)
	if err != nil {
		return nil, err
	}
	if err := backend.Initialize(ctx); err != nil {
		return nil, err
	}
	return backend, nil
}
