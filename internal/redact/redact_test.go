package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"anthropic", "key=sk-ant-api03-abcdefghijk", "key=sk-ant-****"},
		{"openai project", "sk-proj-ABCDEFGH1234 failed", "sk-proj-**** failed"},
		{"gemini", "AIzaSyA1234567890 rejected", "AIza**** rejected"},
		{"github", "token ghp_abcdefghijklmnop", "token ghp_****"},
		{"short prefix untouched", "sk-1", "sk-1"},
		{"plain text", "npm ERR! network timeout", "npm ERR! network timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}

func TestMaskValues(t *testing.T) {
	out := MaskValues("auth failed for custom-secret-value", map[string]string{
		"SEARCH_API_KEY": "custom-secret-value",
		"SHORT":          "ab",
	})
	assert.Equal(t, "auth failed for ****", out)
}
