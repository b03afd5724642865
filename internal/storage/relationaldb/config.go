package relationaldb

import (
	"time"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Config contains database configuration settings
type Config struct {
	Driver string `mapstructure:"driver"`
	// DSN is a file path for sqlite and a connection string for postgres
	DSN string `mapstructure:"dsn"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// NewConfig creates a new Config with sensible defaults
func NewConfig() *Config {
	return &Config{
		Driver:          DriverSQLite,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		DefaultTimeout:  30 * time.Second,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return NewConfigurationError("validate", "driver "+c.Driver, ErrInvalidDriver)
	}
	if c.DSN == "" {
		return NewConfigurationError("validate", "dsn", ErrMissingDSN)
	}
	if c.MaxOpenConns < 0 {
		return NewConfigurationError("validate", "pool", ErrInvalidMaxOpenConns)
	}
	if c.DefaultTimeout <= 0 {
		return NewConfigurationError("validate", "timeout", ErrInvalidTimeout)
	}
	return nil
}
