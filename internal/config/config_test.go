package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "countryfeatures.json5"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countryfeatures.json5")

	err := os.WriteFile(path, []byte(`{
		// only what differs from the defaults
		output_dir: "artifacts",
		crawler: { timeout_seconds: 5 },
	}`), 0666)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "countryfeatures.local.json5"), []byte(`{
		database: "libsql://example.turso.io",
	}`), 0666)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "artifacts", cfg.OutputDir)
	require.Equal(t, "libsql://example.turso.io", cfg.Database)
	require.Equal(t, 5, cfg.Crawler.TimeoutSeconds)
	require.Equal(t, Default().Crawler.IndexUrl, cfg.Crawler.IndexUrl)
	require.Equal(t, Default().Inputs, cfg.Inputs)

	opts := cfg.Crawler.CrawlOptions()
	require.Equal(t, "a[data-country][href]", opts.Links.Selector)
	require.Equal(t, "5s", cfg.Crawler.ClientOptions().Timeout.String())
}
