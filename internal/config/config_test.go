package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/pkg/schema"
)

func TestDefaultHasDefaultVarcharLength(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.Database.SnapshotPath)
	assert.Equal(t, schema.DefaultVarcharLength, cfg.Database.DefaultVarcharLength)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDecodesTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
snapshot_path = "/tmp/db.json"
default_varchar_length = 128
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/db.json", cfg.Database.SnapshotPath)
	assert.Equal(t, 128, cfg.Database.DefaultVarcharLength)
}

func TestLoadFillsInDefaultVarcharLengthWhenOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
snapshot_path = "/tmp/db.json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultVarcharLength, cfg.Database.DefaultVarcharLength)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
