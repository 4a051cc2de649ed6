package shell_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/idobata/internal/envfile"
	"github.com/hbjs97/idobata/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []envfile.Entry {
	return []envfile.Entry{
		{Key: "ANTHROPIC_API_KEY", Value: "sk-ant-123"},
		{Key: "GREETING", Value: "it's a test"},
	}
}

func TestExports_Bash(t *testing.T) {
	out, err := shell.Exports(testEntries(), "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "export ANTHROPIC_API_KEY=")
	assert.Contains(t, out, "export GREETING=")
}

func TestExports_Fish(t *testing.T) {
	out, err := shell.Exports(testEntries(), "fish")
	require.NoError(t, err)
	assert.Contains(t, out, "set -gx ANTHROPIC_API_KEY 'sk-ant-123'\n")
	assert.Contains(t, out, `set -gx GREETING 'it\'s a test'`)
}

func TestExports_BashRoundTripsThroughShell(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	entries := []envfile.Entry{{Key: "V", Value: `a "b" $c 'd' \e`}}
	out, err := shell.Exports(entries, "bash")
	require.NoError(t, err)

	got, err := exec.Command("bash", "-c", out+`printf %s "$V"`).Output()
	require.NoError(t, err)
	assert.Equal(t, entries[0].Value, string(got))
}

func TestUnsets(t *testing.T) {
	assert.Equal(t, "unset ANTHROPIC_API_KEY\nunset GREETING\n", shell.Unsets(testEntries(), "zsh"))
	assert.Equal(t, "set -e ANTHROPIC_API_KEY\nset -e GREETING\n", shell.Unsets(testEntries(), "fish"))
}

func TestHookSnippet_Posix(t *testing.T) {
	for _, sh := range []string{"bash", "zsh", "sh"} {
		snippet, err := shell.HookSnippet(sh, "/work/.env")
		require.NoError(t, err)
		assert.Contains(t, snippet, "idobata env --shell "+sh+" --file ")
		assert.Contains(t, snippet, "/work/.env")
		assert.Contains(t, snippet, "eval")
	}
}

func TestHookSnippet_QuotesPath(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	snippet, err := shell.HookSnippet("bash", "/my work/it's/.env")
	require.NoError(t, err)

	// idobata를 인자를 한 줄씩 기록하는 함수로 대체해 --file 인자가 하나로 전달되는지 확인한다
	out := filepath.Join(t.TempDir(), "args")
	script := `idobata() { printf '%s\n' "$@" > "$ARGS_OUT"; }
` + snippet
	cmd := exec.Command("bash", "-c", script)
	cmd.Env = append(os.Environ(), "ARGS_OUT="+out)
	require.NoError(t, cmd.Run())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"env", "--shell", "bash", "--file", "/my work/it's/.env"},
		strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestHookSnippet_Fish(t *testing.T) {
	snippet, err := shell.HookSnippet("fish", "/work/.env")
	require.NoError(t, err)
	assert.Contains(t, snippet, "--file '/work/.env'")
	assert.Contains(t, snippet, "| source")
}

func TestHookSnippet_Unknown(t *testing.T) {
	snippet, err := shell.HookSnippet("tcsh", "/work/.env")
	require.NoError(t, err)
	assert.Empty(t, snippet)
	assert.False(t, shell.Supported("tcsh"))
	assert.True(t, shell.Supported("fish"))
}
