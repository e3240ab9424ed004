// Package config loads the optional TOML startup file that controls a
// SimpleDB instance's snapshot path and default VARCHAR length, the same
// way the corpus's own schema tooling decodes a TOML document straight into
// a typed struct with github.com/BurntSushi/toml.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"simpledb/pkg/schema"
)

// Config is the top-level TOML document.
type Config struct {
	Database DatabaseConfig `toml:"database"`
}

// DatabaseConfig maps [database].
type DatabaseConfig struct {
	SnapshotPath         string `toml:"snapshot_path"`
	DefaultVarcharLength int    `toml:"default_varchar_length"`
}

// Default returns the zero-value configuration: no snapshot path (pure
// in-memory database) and the schema package's default VARCHAR length.
func Default() Config {
	return Config{Database: DatabaseConfig{DefaultVarcharLength: schema.DefaultVarcharLength}}
}

// Load reads and decodes a TOML config file at path. A missing path is not
// an error; callers get Default() instead, mirroring the engine's own
// "empty or missing file" tolerance for snapshots.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	if cfg.Database.DefaultVarcharLength == 0 {
		cfg.Database.DefaultVarcharLength = schema.DefaultVarcharLength
	}
	return cfg, nil
}
