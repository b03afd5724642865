package config

import (
	"fmt"
	"slices"

	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// ValidateConfig performs comprehensive validation on the complete configuration
func ValidateConfig(config *Config) error {
	if config.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if _, err := config.ProgramAddress(); err != nil {
		return err
	}
	if err := config.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}
	if err := config.History.Validate(); err != nil {
		return fmt.Errorf("history config validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	return nil
}

// Validate performs validation on the storage configuration
func (s *StorageConfig) Validate() error {
	if !slices.Contains(storage.Backends, s.Backend) {
		return fmt.Errorf("invalid backend: %s (valid options: %v)", s.Backend, storage.Backends)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", s.CacheSize)
	}
	if s.CompressThreshold < 0 {
		return fmt.Errorf("compress_threshold must be non-negative, got %d", s.CompressThreshold)
	}
	return nil
}

// Validate performs validation on the history configuration
func (h *HistoryConfig) Validate() error {
	switch h.Driver {
	case relationaldb.DriverSQLite, relationaldb.DriverNone:
	case relationaldb.DriverPostgres:
		if h.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid driver: %s (valid options: sqlite, postgres, none)", h.Driver)
	}
	if h.MaxOpenConns < 0 || h.MaxIdleConns < 0 {
		return fmt.Errorf("connection pool sizes must be non-negative")
	}
	if h.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", h.TimeoutSeconds)
	}
	return nil
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	if _, err := logging.ParseLevel(l.Level); err != nil {
		return err
	}
	return nil
}
