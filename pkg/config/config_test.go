package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := Get()

	assert.Equal(t, "http://localhost:11434", cfg.Provider.URL)
	assert.Equal(t, "llama3", cfg.Provider.Model)
	assert.True(t, cfg.ShowThinking)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	contents := `
provider:
  model: qwen3
show_thinking: false
internal_reasoning_models:
  - o4
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	require.NoError(t, Load(path))
	cfg := Get()

	assert.Equal(t, "qwen3", cfg.Provider.Model)
	assert.False(t, cfg.ShowThinking)
	assert.Equal(t, []string{"o4"}, cfg.InternalReasoningModels)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Defaults still apply for keys the file omits.
	assert.Equal(t, "http://localhost:11434", cfg.Provider.URL)
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Load(""))
	assert.Equal(t, "llama3", Get().Provider.Model)
}
