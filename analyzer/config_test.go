package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.True(t, cfg.TryHarder)
	assert.Equal(t, ".", cfg.LastImageDir)
	assert.Equal(t, ".", cfg.LastExportDir)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Config{LastImageDir: "/scans", LastExportDir: "/out", TryHarder: false}
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadConfigTryHarderDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lastImageDir":"/scans"}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	// Older configs without the key keep the try-harder behaviour on.
	assert.True(t, cfg.TryHarder)
	assert.Equal(t, "/scans", cfg.LastImageDir)
	assert.Equal(t, "/scans", cfg.LastExportDir)
}
