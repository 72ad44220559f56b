package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finsight/internal/source/memory"
	"finsight/internal/source/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteSource:
		return f.createSQLiteSource(config)
	case MemorySource:
		return f.createMemorySource(config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*Result, error) {
	repo, err := sqlite.NewRepository(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite source: %w", err)
	}

	f.logger.Info("Initialized SQLite source", "db_path", config.DBPath)

	return &Result{
		Source:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemorySource(config Config) (*Result, error) {
	seedDir := config.SeedDir
	if seedDir == "" {
		seedDir = "data"
	}

	store, err := memory.NewFromDir(seedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory source: %w", err)
	}

	f.logger.Info("Initialized memory source", "seed_dir", seedDir)

	return &Result{
		Source:  store,
		Cleanup: store.Close,
	}, nil
}
