package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Retries int               `json:"retries"`
	Labels  map[string]string `json:"labels"`
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "dir/config.local.json5", LocalPath("dir/config.json5"))
	require.Equal(t, "config.local", LocalPath("config"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(path, []byte(`{
		// comments are allowed
		name: "base",
		retries: 2,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "base", Retries: 2}, cfg)

	err = os.WriteFile(LocalPath(path), []byte(`{name: "local"}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
	require.Equal(t, 2, cfg.Retries)
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	defaults := testConfig{Name: "default", Retries: 5}

	cfg, err := ReadConfigWithDefaults(path, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	err = os.WriteFile(path, []byte(`{retries: 1}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfigWithDefaults(path, defaults)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 1, cfg.Retries)
}
