package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sahte/internal/model"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	prev := cfgFile
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = prev
	})
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Sahte Configuration File")

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_Hierarchy(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "tsetlin:\n  clauses: 40\n  epochs: 3\ncache:\n  memory_ttl: 5m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfgFile = path
	t.Setenv("SAHTE_TSETLIN_EPOCHS", "7")
	t.Setenv("SAHTE_ARTIFACTS_BACKEND", "sqlite")

	initConfig()
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Tsetlin.Clauses, "from file")
	assert.Equal(t, 7, cfg.Tsetlin.Epochs, "env beats file")
	assert.Equal(t, "sqlite", cfg.Artifacts.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.MemoryTTL)
	assert.Equal(t, 15, cfg.Tsetlin.T, "default")
	assert.Equal(t, 500, cfg.Features.MaxVocabulary, "default")
}

func TestLoadConfig_Invalid(t *testing.T) {
	resetViper(t)
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv("SAHTE_SPLIT_TEST_SIZE", "1.5")

	initConfig()
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TestSize")
}
