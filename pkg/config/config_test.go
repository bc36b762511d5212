package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/pkg/config"
)

func TestParseStorageDriver(t *testing.T) {
	driver, err := config.ParseStorageDriver("memory")
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMemory, driver)

	driver, err = config.ParseStorageDriver("postgres")
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverPostgres, driver)

	_, err = config.ParseStorageDriver("sqlite")
	assert.Error(t, err)
}

func TestLoad_DefaultsToMemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DB_HOST", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "data/hotspots.csv", cfg.Storage.SeedFile)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_DatabaseHostImpliesPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
	assert.Contains(t, cfg.Database.DatabaseDSN(), "host=db.internal")
}

func TestLoad_ExplicitDriverWins(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := config.Load()
	assert.Error(t, err)
}
