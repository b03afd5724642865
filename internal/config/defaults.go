package config

import "github.com/spf13/viper"

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./data")
	v.SetDefault("program_id", "")

	// Storage defaults
	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.cache_size", 4096)
	v.SetDefault("storage.compress_threshold", 1024)

	// History defaults
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.max_open_conns", 10)
	v.SetDefault("history.max_idle_conns", 2)
	v.SetDefault("history.conn_max_lifetime_seconds", 3600)
	v.SetDefault("history.timeout_seconds", 30)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "prod")

	v.SetDefault("engine.skip_signature_verification", false)
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
