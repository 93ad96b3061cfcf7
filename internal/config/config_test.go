package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, AppRoot(), cfg.Source)
	assert.Equal(t, filepath.Join(cfg.Source, "src", "tally_data"), cfg.Destination)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.True(t, filepath.IsAbs(AppRoot()))
}

func TestValidate_ResolvesPaths(t *testing.T) {
	tmp := t.TempDir()
	cfg := &Config{
		Source:      tmp,
		Destination: "./relative/out",
		LogFile:     filepath.Join(tmp, "x.log"),
		HTTPAddr:    "127.0.0.1:9000",
	}

	require.NoError(t, cfg.Validate())
	assert.True(t, filepath.IsAbs(cfg.Destination))
	assert.Equal(t, filepath.Clean(tmp), cfg.Source)
}

func TestValidate_Errors(t *testing.T) {
	t.Run("empty source", func(t *testing.T) {
		cfg := &Config{Destination: "/tmp/x"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source")
	})

	t.Run("empty destination", func(t *testing.T) {
		cfg := &Config{Source: "/tmp"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "destination")
	})

	t.Run("bad http addr", func(t *testing.T) {
		cfg := &Config{Source: "/tmp", Destination: "/tmp/x", HTTPAddr: "no-port"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http addr")
	})
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := &Config{
		Source:      "/data/tally",
		Destination: "/backup/tally",
		Exclude:     []string{"*.tmp"},
		HTTPToken:   "secret",
	}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/tally", loaded.Source)
	assert.Equal(t, "/backup/tally", loaded.Destination)
	assert.Equal(t, []string{"*.tmp"}, loaded.Exclude)
	assert.Equal(t, "secret", loaded.HTTPToken)
	assert.Equal(t, path, loaded.Path)
	// unset keys keep their defaults
	assert.Equal(t, DefaultHTTPAddr, loaded.HTTPAddr)

	assert.Error(t, cfg.Save(""))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
