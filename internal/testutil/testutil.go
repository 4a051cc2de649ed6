// Package testutil provides common test helpers for the idobata project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempFile creates name inside a fresh temporary directory with the given
// content and returns its path.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempFile: write failed: %v", err)
	}

	return path
}

// TempManifest creates a temporary bootstrap.toml with the given content
// and returns its path.
func TempManifest(t *testing.T, content string) string {
	t.Helper()
	return TempFile(t, "bootstrap.toml", content)
}

// SampleManifest writes a manifest whose profile, env file and templates all
// live under a temporary workspace. Returns the manifest path and the workspace dir.
func SampleManifest(t *testing.T) (string, string) {
	t.Helper()

	ws := t.TempDir()
	content := `version = 1
profile = "` + filepath.Join(ws, ".bashrc") + `"
env_file = "` + filepath.Join(ws, ".env") + `"
workspace = "` + ws + `"
mcp_cli = "claude"

[[preflight]]
name = "apt-update"
command = ["apt-get", "update"]
required = true

[[tools]]
name = "claude-code"
binary = "claude"
install = ["npm", "install", "-g", "@anthropic-ai/claude-code"]

[[tools]]
name = "gemini-cli"
binary = "gemini"
install = ["npm", "install", "-g", "@google/gemini-cli"]
env_required = ["GEMINI_API_KEY"]

[[profile_blocks]]
marker = "local-bin"
content = 'export PATH="$HOME/.local/bin:$PATH"'

[[templates]]
path = "tasks.yaml"
kind = "tasks"

[[mcp]]
name = "search"
scope = "user"
env = ["SEARCH_API_KEY"]
command = ["npx", "-y", "search-mcp-server"]
`
	return TempManifest(t, content), ws
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: read failed: %v", err)
	}
	return string(data)
}
