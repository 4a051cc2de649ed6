package scaffold_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFile_CreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.yaml")

	created, err := scaffold.EnsureFile(path, []byte("first"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = scaffold.EnsureFile(path, []byte("second"))
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestEnsureFile_KeepsUserEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Makefile")
	require.NoError(t, os.WriteFile(path, []byte("custom:\n\techo hi\n"), 0644))

	created, err := scaffold.EnsureFile(path, scaffold.RenderTaskRunner())
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom:\n\techo hi\n", string(data))
}

func TestRender_TaskListRoundTrip(t *testing.T) {
	data, err := scaffold.Render(config.KindTasks, "sandbox")
	require.NoError(t, err)

	tl, err := scaffold.ParseTaskList(data)
	require.NoError(t, err)
	assert.Equal(t, "sandbox", tl.Project)
	assert.Equal(t, []string{"claude", "gemini", "codex"}, tl.Participants)
	require.NotEmpty(t, tl.Tasks)
	assert.Equal(t, "init", tl.Tasks[0].ID)
}

func TestRender_TaskRunner(t *testing.T) {
	data, err := scaffold.Render(config.KindRunner, "sandbox")
	require.NoError(t, err)

	mk := string(data)
	assert.Contains(t, mk, "\nbootstrap:\n\tidobata run\n")
	assert.Contains(t, mk, ".PHONY: help bootstrap doctor status commands")
	for _, line := range strings.Split(mk, "\n") {
		assert.False(t, strings.HasPrefix(line, "    "), "recipe lines must use tabs: %q", line)
	}
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := scaffold.Render("json", "sandbox")
	assert.Error(t, err)
}
