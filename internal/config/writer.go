package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const fileHeader = `# solcastd configuration
#
# Every key may be overridden by an environment variable named
# SOLCASTD_<SECTION>_<KEY>, for example SOLCASTD_STORAGE_BACKEND=leveldb.

`

// WriteFile writes cfg as TOML to path. It refuses to replace an existing
// file unless overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(fileHeader); err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}
