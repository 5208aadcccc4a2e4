package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	weights, wordlists, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, weights.ToolReliability)
	assert.NotEmpty(t, wordlists.CommandShaped)
}

func TestLoadYAMLFileOverridesWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	body := `
weights:
  corroboration_two: 0.3
  tool_reliability:
    sqlmap: 0.99
wordlists:
  command_shaped:
    - cmd
    - run
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	weights, wordlists, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, weights.CorroborationTwo)
	assert.Equal(t, 0.99, weights.ToolReliability["sqlmap"])
	assert.Equal(t, []string{"cmd", "run"}, wordlists.CommandShaped)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, _, err := Load("/nonexistent/engine.yaml")
	assert.Error(t, err)
}
