package docs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/idobata/internal/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	assert.Equal(t, []string{"idobata-close", "idobata-init", "idobata-round"}, docs.List())
}

func TestGet(t *testing.T) {
	body, err := docs.Get("/idobata-init")
	require.NoError(t, err)
	assert.Contains(t, body, "# /idobata-init")

	_, err = docs.Get("idobata-unknown")
	assert.Error(t, err)
}

func TestInstall_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".claude", "commands")

	created, err := docs.Install(dir)
	require.NoError(t, err)
	assert.Len(t, created, 3)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "idobata-init.md"), []byte("edited"), 0644))

	created, err = docs.Install(dir)
	require.NoError(t, err)
	assert.Empty(t, created)

	data, err := os.ReadFile(filepath.Join(dir, "idobata-init.md"))
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))
}
