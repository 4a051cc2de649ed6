package envfile_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/idobata/internal/envfile"
	"github.com/hbjs97/idobata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SkipsCommentsAndBlankLines(t *testing.T) {
	input := `# API keys
ANTHROPIC_API_KEY=sk-ant-123

   # indented comment
GEMINI_API_KEY=AIza-456
`
	f, err := envfile.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, f.Entries, 2)
	assert.Equal(t, envfile.Entry{Key: "ANTHROPIC_API_KEY", Value: "sk-ant-123", Line: 2}, f.Entries[0])
	assert.Equal(t, envfile.Entry{Key: "GEMINI_API_KEY", Value: "AIza-456", Line: 5}, f.Entries[1])
	assert.Empty(t, f.Skipped)
}

func TestParse_ValuesVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		key   string
		value string
	}{
		{"quotes kept", `Q="quoted value"`, "Q", `"quoted value"`},
		{"extra equals", "URL=https://x.test/?a=b", "URL", "https://x.test/?a=b"},
		{"empty value", "EMPTY=", "EMPTY", ""},
		{"trailing spaces kept", "PAD=v  ", "PAD", "v  "},
		{"hash inside value", "H=a#b", "H", "a#b"},
		{"export prefix", "export TOKEN=abc", "TOKEN", "abc"},
		{"export with tab", "export\tTOKEN=abc", "TOKEN", "abc"},
		{"export with spaces", "  export   TOKEN=abc", "TOKEN", "abc"},
		{"key named export", "export=1", "export", "1"},
		{"crlf stripped", "WIN=v\r", "WIN", "v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := envfile.Parse(strings.NewReader(tt.line))
			require.NoError(t, err)
			require.Len(t, f.Entries, 1)
			assert.Equal(t, tt.key, f.Entries[0].Key)
			assert.Equal(t, tt.value, f.Entries[0].Value)
		})
	}
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	input := `GOOD=1
no equals here
=novalue
1BAD=x
BAD KEY=x
ALSO_GOOD=2`
	f, err := envfile.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, f.Entries, 2)
	assert.Equal(t, "GOOD", f.Entries[0].Key)
	assert.Equal(t, "ALSO_GOOD", f.Entries[1].Key)
	assert.Equal(t, []int{2, 3, 4, 5}, f.Skipped)
}

func TestLoad_MissingFile(t *testing.T) {
	f, err := envfile.Load(filepath.Join(t.TempDir(), ".env"))
	assert.True(t, errors.Is(err, envfile.ErrNotFound))
	require.NotNil(t, f)
	assert.Empty(t, f.Entries)
}

func TestLoad_File(t *testing.T) {
	path := testutil.TempFile(t, ".env", "A=1\nB=2\n")
	f, err := envfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, f.Map())
}

func TestApply_LastValueWins(t *testing.T) {
	f, err := envfile.Parse(strings.NewReader("A=1\nA=2\nB=3"))
	require.NoError(t, err)

	got := map[string]string{}
	var order []string
	err = f.Apply(func(k, v string) error {
		got[k] = v
		order = append(order, k)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "2", "B": "3"}, got)
	assert.Equal(t, []string{"A", "A", "B"}, order)
}

func TestApply_PropagatesError(t *testing.T) {
	f, err := envfile.Parse(strings.NewReader("A=1"))
	require.NoError(t, err)

	err = f.Apply(func(k, v string) error { return errors.New("boom") })
	assert.ErrorContains(t, err, "A")
}
