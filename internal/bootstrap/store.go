// Package bootstrap wires configuration to a concrete backing store at
// startup.
package bootstrap

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hotspotsapp/wifi-directory/internal/adapters/database"
	"github.com/hotspotsapp/wifi-directory/internal/adapters/memory"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
	"github.com/hotspotsapp/wifi-directory/internal/importer"
	"github.com/hotspotsapp/wifi-directory/internal/infrastructure/clients/postgres"
	"github.com/hotspotsapp/wifi-directory/pkg/config"
)

// Backend is the selected backing store. Driver reports what was actually
// chosen, which differs from the configuration after a fallback.
type Backend struct {
	Store  repositories.DirectoryStore
	Driver config.StorageDriver
	Close  func() error
}

// SelectStore resolves the configured storage driver into a running store.
// A Postgres driver that cannot connect falls back to the seeded in-memory
// store rather than failing startup.
func SelectStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *Backend {
	if cfg.Storage.Driver == config.StorageDriverPostgres {
		backend, err := postgresBackend(ctx, cfg)
		if err == nil {
			logger.Info().Str("driver", string(config.StorageDriverPostgres)).Msg("backing store ready")
			return backend
		}
		logger.Warn().Err(err).Msg("postgres unavailable, falling back to in-memory store")
	}

	store := memoryBackend(ctx, cfg, logger)
	logger.Info().Str("driver", string(config.StorageDriverMemory)).Msg("backing store ready")
	return &Backend{
		Store:  store,
		Driver: config.StorageDriverMemory,
		Close:  func() error { return nil },
	}
}

func postgresBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Backend{
		Store:  database.NewDirectoryAdapter(client),
		Driver: config.StorageDriverPostgres,
		Close:  client.Close,
	}, nil
}

func memoryBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) repositories.DirectoryStore {
	store := memory.NewStore()

	records := importer.LoadInitialData(cfg.Storage.SeedFile)
	if len(records) == 0 {
		return store
	}
	if err := store.BulkImport(ctx, records); err != nil {
		logger.Warn().Err(err).Msg("failed to seed in-memory store")
		return store
	}
	logger.Info().Int("count", len(records)).Str("file", cfg.Storage.SeedFile).Msg("seeded in-memory store")
	return store
}
