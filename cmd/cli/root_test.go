package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/flowbaker/order-assistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func isolateEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ASSISTANT_PROVIDER", "ASSISTANT_MODEL", "GOOGLE_API_KEY",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "TAVILY_API_KEY", "DEBUG",
		"ASSISTANT_API_TOKEN",
	} {
		t.Setenv(key, "")
	}

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"ask", "chat", "serve", "config", "version"}, names)
}

func TestVersionCommand_JSON(t *testing.T) {
	root := NewRootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})

	require.NoError(t, root.Execute())

	var info map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

func TestAskCommand_RequiresModelKey(t *testing.T) {
	isolateEnv(t)

	root := NewRootCommand()
	root.SetArgs([]string{"ask", "where is ORD123"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestServeCommand_RequiresModelKey(t *testing.T) {
	isolateEnv(t)

	root := NewRootCommand()
	root.SetArgs([]string{"serve", "--provider", "openai"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	isolateEnv(t)

	root := NewRootCommand()
	root.SetArgs([]string{"--provider", "anthropic", "--model", "claude-sonnet-4-5", "version"})
	require.NoError(t, root.Execute())

	versionCmd, _, err := root.Find([]string{"version"})
	require.NoError(t, err)

	cfg, err := loadConfig(versionCmd)
	require.NoError(t, err)

	assert.Equal(t, config.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
}

func TestLoadConfig_ProviderFlagIsNormalized(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	root := NewRootCommand()
	root.SetArgs([]string{"--provider", " OpenAI ", "version"})
	require.NoError(t, root.Execute())

	versionCmd, _, err := root.Find([]string{"version"})
	require.NoError(t, err)

	cfg, err := loadConfig(versionCmd)
	require.NoError(t, err)

	assert.Equal(t, config.ProviderOpenAI, cfg.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestConfigCommand_MasksSecrets(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GOOGLE_API_KEY", "AIzaSyExample")

	root := NewRootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config"})

	require.NoError(t, root.Execute())
	assert.NotContains(t, out.String(), "AIzaSyExample")

	var printed map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, "gemini", printed["provider"])
	assert.Equal(t, "AIza*********", printed["google_api_key"])
}
