package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/crypto"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// DefaultProgramSeed derives the program id used when program_id is unset.
const DefaultProgramSeed = "solcast-market-program"

// Config represents the complete solcastd configuration
type Config struct {
	// DataDir holds the ledger database and the default history database
	DataDir string `toml:"data_dir" mapstructure:"data_dir"`

	// ProgramID seeds every derived market address; empty selects the default
	ProgramID string `toml:"program_id" mapstructure:"program_id"`

	Storage StorageConfig `toml:"storage" mapstructure:"storage"`
	History HistoryConfig `toml:"history" mapstructure:"history"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
	Engine  EngineConfig  `toml:"engine" mapstructure:"engine"`

	// Internal fields for tracking file paths
	configPath string
}

// StorageConfig represents the [storage] section
type StorageConfig struct {
	// Backend is one of pebble, leveldb or memory
	Backend           string `toml:"backend" mapstructure:"backend"`
	CacheSize         int    `toml:"cache_size" mapstructure:"cache_size"`
	CompressThreshold int    `toml:"compress_threshold" mapstructure:"compress_threshold"`
}

// HistoryConfig represents the [history] section
type HistoryConfig struct {
	// Driver is one of sqlite, postgres or none
	Driver string `toml:"driver" mapstructure:"driver"`
	// DSN defaults to <data_dir>/history.db for sqlite
	DSN                    string `toml:"dsn" mapstructure:"dsn"`
	MaxOpenConns           int    `toml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns           int    `toml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `toml:"conn_max_lifetime_seconds" mapstructure:"conn_max_lifetime_seconds"`
	TimeoutSeconds         int    `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
	// Env selects the encoder: dev is human readable, anything else is JSON
	Env string `toml:"env" mapstructure:"env"`
}

// EngineConfig represents the [engine] section
type EngineConfig struct {
	SkipSignatureVerification bool `toml:"skip_signature_verification" mapstructure:"skip_signature_verification"`
}

// DefaultProgramID is the program id used when none is configured.
func DefaultProgramID() entry.Address {
	return entry.Address(crypto.CalcAccountID([]byte(DefaultProgramSeed)))
}

// ProgramAddress returns the configured program id.
func (c *Config) ProgramAddress() (entry.Address, error) {
	if c.ProgramID == "" {
		return DefaultProgramID(), nil
	}
	addr, err := entry.ParseAddress(c.ProgramID)
	if err != nil {
		return entry.Address{}, fmt.Errorf("program_id: %w", err)
	}
	return addr, nil
}

// LedgerPath returns the directory the ledger database lives in.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "ledger")
}

// HistoryDSN returns the history DSN, defaulting the sqlite file into DataDir.
func (c *Config) HistoryDSN() string {
	if c.History.DSN == "" && c.History.Driver == "sqlite" {
		return filepath.Join(c.DataDir, "history.db")
	}
	return c.History.DSN
}

// GetConfigPath returns the path of the loaded config file, if any.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// HistoryDB converts the [history] section into a relationaldb.Config.
func (c *Config) HistoryDB() *relationaldb.Config {
	return &relationaldb.Config{
		Driver:          c.History.Driver,
		DSN:             c.HistoryDSN(),
		MaxOpenConns:    c.History.MaxOpenConns,
		MaxIdleConns:    c.History.MaxIdleConns,
		ConnMaxLifetime: time.Duration(c.History.ConnMaxLifetimeSeconds) * time.Second,
		DefaultTimeout:  time.Duration(c.History.TimeoutSeconds) * time.Second,
	}
}
