package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidTOML(t *testing.T) {
	path, ws := testutil.SampleManifest(t)
	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, filepath.Join(ws, ".bashrc"), cfg.Profile)
	assert.Equal(t, filepath.Join(ws, ".env"), cfg.EnvFile)
	assert.True(t, cfg.IsEnvHook())
	assert.Len(t, cfg.Tools, 2)
	assert.Equal(t, "claude", cfg.Tools[0].Binary)
	assert.Equal(t, []string{"GEMINI_API_KEY"}, cfg.Tools[1].EnvRequired)
	assert.True(t, cfg.Preflight[0].Required)
	require.Len(t, cfg.MCP, 1)
	assert.Equal(t, "user", cfg.MCP[0].Scope)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/path/bootstrap.toml")
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := testutil.TempManifest(t, "invalid toml [[[")
	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "tool without install",
			content: `profile = "/tmp/rc"
[[tools]]
name = "claude"`,
		},
		{
			name: "duplicate names across sections",
			content: `profile = "/tmp/rc"
[[tools]]
name = "search"
install = ["npm", "i", "-g", "x"]
[[mcp]]
name = "search"
command = ["npx", "x"]`,
		},
		{
			name: "bad template kind",
			content: `profile = "/tmp/rc"
[[templates]]
path = "tasks.json"
kind = "json"`,
		},
		{
			name: "bad scope",
			content: `profile = "/tmp/rc"
[[mcp]]
name = "s"
scope = "global"
command = ["npx", "s"]`,
		},
		{
			name: "bad env key",
			content: `profile = "/tmp/rc"
[[mcp]]
name = "s"
env = ["1BAD"]
command = ["npx", "s"]`,
		},
		{
			name: "empty profile block",
			content: `profile = "/tmp/rc"
[[profile_blocks]]
marker = "m"
content = "  "`,
		},
		{
			name: "preflight without command",
			content: `profile = "/tmp/rc"
[[preflight]]
name = "apt"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.TempManifest(t, tt.content)
			_, err := config.Load(path)
			assert.ErrorIs(t, err, config.ErrConfig)
		})
	}
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	ws := t.TempDir()
	path := testutil.TempManifest(t, `profile = "/tmp/rc"
workspace = "`+ws+`"
[[tools]]
name = "codex"
install = ["npm", "install", "-g", "@openai/codex"]
[[mcp]]
name = "serena"
command = ["uvx", "serena"]`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, filepath.Join(ws, ".env"), cfg.EnvFile)
	assert.Equal(t, config.DefaultMCPCLI, cfg.MCPCLI)
	assert.Equal(t, "codex", cfg.Tools[0].Binary)
	assert.Equal(t, "user", cfg.MCP[0].Scope)
	assert.True(t, cfg.IsEnvHook())
}

func TestLoadConfig_EnvHookDisabled(t *testing.T) {
	path := testutil.TempManifest(t, `profile = "/tmp/rc"
env_hook = false`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.IsEnvHook())
}

func TestLoadConfig_ProfileFromShell(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/zsh")

	path := testutil.TempManifest(t, `version = 1`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".zshrc"), cfg.Profile)
}

func TestLoadConfig_UnknownShellWithoutProfile(t *testing.T) {
	t.Setenv("SHELL", "/bin/tcsh")
	path := testutil.TempManifest(t, `version = 1`)
	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestDefault_Parses(t *testing.T) {
	t.Setenv("SHELL", "/bin/bash")
	cfg, err := config.Default()
	require.NoError(t, err)

	names := cfg.UnitNames()
	assert.Contains(t, names, "claude-code")
	assert.Contains(t, names, "gemini-cli")
	assert.Contains(t, names, "codex")
	assert.Contains(t, names, "brave-search")
	assert.Contains(t, names, "serena")
	assert.Equal(t, "apt-update", names[0])
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "bootstrap.toml")

	hook := false
	cfg := &config.Config{
		Version: 1,
		Profile: "/tmp/rc",
		EnvHook: &hook,
		Tools: []config.Tool{
			{Name: "codex", Binary: "codex", Install: []string{"npm", "install", "-g", "@openai/codex"}},
		},
		MCP: []config.MCPServer{
			{Name: "search", Scope: "project", Env: []string{"SEARCH_API_KEY"}, Command: []string{"npx", "-y", "search"}},
		},
	}

	require.NoError(t, config.Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.IsEnvHook())
	assert.Equal(t, cfg.Tools, loaded.Tools)
	assert.Equal(t, cfg.MCP, loaded.MCP)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".bashrc"), config.ExpandPath("~/.bashrc"))
	assert.Equal(t, home, config.ExpandPath("~"))
	assert.Equal(t, "/etc/profile", config.ExpandPath("/etc/profile"))
	assert.Equal(t, "~user/x", config.ExpandPath("~user/x"))
}

func TestWorkspacePath(t *testing.T) {
	cfg := &config.Config{Workspace: "/workspaces/app"}
	assert.Equal(t, "/workspaces/app/tasks.yaml", cfg.WorkspacePath("tasks.yaml"))
	assert.Equal(t, "/abs/Makefile", cfg.WorkspacePath("/abs/Makefile"))
}
