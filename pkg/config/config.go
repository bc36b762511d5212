package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// StorageDriver selects the backing store for the directory. The choice is
// resolved once at startup and fixed for the process lifetime.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// ParseStorageDriver validates a raw driver name.
func ParseStorageDriver(raw string) (StorageDriver, error) {
	switch StorageDriver(raw) {
	case StorageDriverMemory, StorageDriverPostgres:
		return StorageDriver(raw), nil
	default:
		return "", fmt.Errorf("unknown storage driver %q (expected %q or %q)", raw, StorageDriverMemory, StorageDriverPostgres)
	}
}

// Config holds all application configuration
type Config struct {
	Env      string
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig holds backing-store selection and seeding configuration
type StorageConfig struct {
	Driver StorageDriver
	// SeedFile is the CSV the in-memory store is seeded from. Optional;
	// a missing file leaves the directory empty.
	SeedFile string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	driver, err := resolveStorageDriver()
	if err != nil {
		return nil, err
	}

	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Storage: StorageConfig{
			Driver:   driver,
			SeedFile: getEnv("SEED_FILE", "data/hotspots.csv"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "wifi_directory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
	}, nil
}

// resolveStorageDriver picks the backing store. An explicit STORAGE_DRIVER
// wins; otherwise the presence of database connection configuration selects
// postgres, and memory is the default.
func resolveStorageDriver() (StorageDriver, error) {
	if raw := os.Getenv("STORAGE_DRIVER"); raw != "" {
		return ParseStorageDriver(raw)
	}
	if os.Getenv("DB_HOST") != "" {
		return StorageDriverPostgres, nil
	}
	return StorageDriverMemory, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
