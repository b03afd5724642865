package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "pebble", cfg.Storage.Backend)
	assert.Equal(t, 4096, cfg.Storage.CacheSize)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Engine.SkipSignatureVerification)
	require.NoError(t, ValidateConfig(cfg))

	addr, err := cfg.ProgramAddress()
	require.NoError(t, err)
	assert.Equal(t, DefaultProgramID(), addr)
	assert.False(t, addr.IsZero())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	program := entry.Address{1, 2, 3}

	content := `
data_dir = "` + filepath.ToSlash(filepath.Join(tempDir, "data")) + `"
program_id = "` + program.String() + `"

[storage]
backend = "leveldb"
cache_size = 128

[history]
driver = "sqlite"

[log]
level = "debug"
env = "dev"

[engine]
skip_signature_verification = true
`
	path := filepath.Join(tempDir, "solcastd.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.GetConfigPath())
	assert.Equal(t, "leveldb", cfg.Storage.Backend)
	assert.Equal(t, 128, cfg.Storage.CacheSize)
	// unset keys keep their defaults
	assert.Equal(t, 1024, cfg.Storage.CompressThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Engine.SkipSignatureVerification)

	addr, err := cfg.ProgramAddress()
	require.NoError(t, err)
	assert.Equal(t, program, addr)

	db := cfg.HistoryDB()
	assert.Equal(t, relationaldb.DriverSQLite, db.Driver)
	assert.Equal(t, filepath.Join(cfg.DataDir, "history.db"), db.DSN)
	assert.Equal(t, time.Hour, db.ConnMaxLifetime)
	assert.Equal(t, 30*time.Second, db.DefaultTimeout)
	require.NoError(t, db.Validate())
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "pebble", cfg.Storage.Backend)
	assert.Empty(t, cfg.GetConfigPath())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SOLCASTD_STORAGE_BACKEND", "memory")
	t.Setenv("SOLCASTD_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestDotEnvNextToConfig(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "solcastd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".env"), []byte("SOLCASTD_HISTORY_DRIVER=none\n"), 0o644))

	// godotenv.Load mutates the process environment
	t.Cleanup(func() { os.Unsetenv("SOLCASTD_HISTORY_DRIVER") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, relationaldb.DriverNone, cfg.History.Driver)
}

func TestConfigValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir is required"},
		{"bad program id", func(c *Config) { c.ProgramID = "0OIl" }, "program_id"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "bolt" }, "invalid backend"},
		{"negative cache", func(c *Config) { c.Storage.CacheSize = -1 }, "cache_size"},
		{"negative threshold", func(c *Config) { c.Storage.CompressThreshold = -1 }, "compress_threshold"},
		{"unknown driver", func(c *Config) { c.History.Driver = "mysql" }, "invalid driver"},
		{"postgres without dsn", func(c *Config) { c.History.Driver = "postgres" }, "dsn is required"},
		{"zero timeout", func(c *Config) { c.History.TimeoutSeconds = 0 }, "timeout_seconds"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "solcastd.toml")
	cfg := Default()
	cfg.Storage.Backend = "leveldb"
	cfg.Log.Env = "dev"

	require.NoError(t, WriteFile(path, cfg, false))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "leveldb", loaded.Storage.Backend)
	assert.Equal(t, "dev", loaded.Log.Env)
	assert.Equal(t, cfg.History, loaded.History)

	err = WriteFile(path, cfg, false)
	assert.ErrorContains(t, err, "already exists")
	require.NoError(t, WriteFile(path, cfg, true))
}
