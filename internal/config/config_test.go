package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without credentials", func(t *testing.T) {
		setupTest(t)
		workDir := t.TempDir()

		c, err := Load(workDir, false)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(workDir, defaultDataDirectory), c.Data.Directory)
		assert.Equal(t, "info", c.Log.Level)
		assert.Equal(t, []models.ModelID{models.LocalEcho}, c.Agents)
		assert.Equal(t, defaultPlaceholder, c.Title.Placeholder)
		assert.Equal(t, defaultMaxTokens, c.MaxTokens)
		assert.Equal(t, 3, c.RateLimit.Burst)
		assert.Same(t, c, Get())
	})

	t.Run("provider keys from env order the agents", func(t *testing.T) {
		setupTest(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

		c, err := Load(t.TempDir(), true)
		require.NoError(t, err)

		assert.True(t, c.Debug)
		assert.Equal(t, "debug", c.Log.Level)
		assert.Equal(t, "sk-ant", c.Providers[models.ProviderAnthropic].APIKey)
		assert.Equal(t, []models.ModelID{
			models.Claude37Sonnet,
			models.Claude35Haiku,
			models.GPT41,
			models.GPT4oMini,
			models.LocalEcho,
		}, c.Agents)

		r := Registry()
		assert.Equal(t, "claude-3.7-sonnet", r.AgentNames[0])
	})

	t.Run("global and local config files are merged", func(t *testing.T) {
		setupTest(t)
		homeDir := t.TempDir()
		t.Setenv("HOME", homeDir)
		workDir := t.TempDir()

		global := `{
			"data": {"directory": "/tmp/agentchat-data"},
			"providers": {"openai": {"apiKey": "sk-file"}},
			"agents": ["gpt-4o-mini", "claude-3.7-sonnet", "bogus", "local.echo"],
			"title": {"placeholder": "Chat"}
		}`
		require.NoError(t, os.WriteFile(filepath.Join(homeDir, ".agentchat.json"), []byte(global), 0o644))

		local := `{"maxTokens": 1234, "rateLimit": {"perSecond": 0.5, "burst": 2}}`
		require.NoError(t, os.WriteFile(filepath.Join(workDir, ".agentchat.json"), []byte(local), 0o644))

		c, err := Load(workDir, false)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/agentchat-data", c.Data.Directory)
		assert.Equal(t, "Chat", c.Title.Placeholder)
		assert.Equal(t, int64(1234), c.MaxTokens)
		assert.Equal(t, 0.5, c.RateLimit.PerSecond)
		assert.Equal(t, 2, c.RateLimit.Burst)
		// anthropic has no key, bogus is unknown
		assert.Equal(t, []models.ModelID{models.GPT4oMini, models.LocalEcho}, c.Agents)
	})

	t.Run("disabled provider is dropped", func(t *testing.T) {
		setupTest(t)
		homeDir := t.TempDir()
		t.Setenv("HOME", homeDir)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

		content := `{"providers": {"anthropic": {"disabled": true}}}`
		require.NoError(t, os.WriteFile(filepath.Join(homeDir, ".agentchat.json"), []byte(content), 0o644))

		c, err := Load(t.TempDir(), false)
		require.NoError(t, err)
		assert.Equal(t, []models.ModelID{models.LocalEcho}, c.Agents)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		setupTest(t)
		homeDir := t.TempDir()
		t.Setenv("HOME", homeDir)
		require.NoError(t, os.WriteFile(filepath.Join(homeDir, ".agentchat.json"), []byte("{"), 0o644))

		_, err := Load(t.TempDir(), false)
		require.Error(t, err)
		assert.Nil(t, Get())
	})
}

func TestReloadAgents(t *testing.T) {
	setupTest(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	_, err := Load(t.TempDir(), false)
	require.NoError(t, err)

	_, changed := reloadAgents()
	assert.False(t, changed)

	viper.Set("agents", []string{"gpt-4.1"})
	registry, changed := reloadAgents()
	require.True(t, changed)
	assert.Equal(t, []string{"gpt-4.1"}, registry.AgentNames)
	assert.Equal(t, []models.ModelID{models.GPT41}, Get().Agents)
}

func setupTest(t *testing.T) {
	t.Helper()
	Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, key := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_PROFILE", "AWS_DEFAULT_PROFILE",
		"AWS_CONTAINER_CREDENTIALS_RELATIVE_URI", "AWS_CONTAINER_CREDENTIALS_FULL_URI",
	} {
		t.Setenv(key, "")
	}
	t.Cleanup(Reset)
}
