package cmd

import (
	"context"
	"fmt"
	"time"

	"esg-matching/core/config"
	"esg-matching/core/database"
	"esg-matching/core/logger"
	"esg-matching/core/storage"
	"esg-matching/feature/settings"

	"go.uber.org/zap"
)

// runtime is what the commands share once configuration is loaded.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   storage.Client
	settings *settings.Settings
}

// loadRuntime loads the configuration, the logger, the storage client and the
// settings document.
func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// The client connects lazily: it only matters for s3:// settings and reports
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	src := settingsSource
	if src == "" {
		src = cfg.Matching.Settings
	}
	s, err := settings.NewLoader(client).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	l.Info("Settings loaded", zap.String("source", src), zap.Strings("policies", s.PolicyNames()))
	if !cfg.Storage.Reports() {
		l.Debug("Run report upload disabled: storage.bucket is empty")
	}

	return &runtime{cfg: cfg, logger: l, client: client, settings: s}, nil
}

// connect opens the database and wraps it in a matching store.
func (r *runtime) connect() (*database.Store, error) {
	db, err := database.Connect(r.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	ttl := time.Duration(r.cfg.Database.ColumnCacheSeconds) * time.Second
	return database.NewStore(db, r.logger, ttl), nil
}
