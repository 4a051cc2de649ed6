package testutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestFakeCommander_ExactMatch(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("claude mcp get search", "search: npx -y search-server\n", nil)

	out, err := fc.Run(context.Background(), "claude", "mcp", "get", "search")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "search: npx -y search-server\n" {
		t.Errorf("got %q", string(out))
	}
}

func TestFakeCommander_PrefixMatch(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("npm install", "added 1 package", nil)

	out, err := fc.Run(context.Background(), "npm", "install", "-g", "@google/gemini-cli")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "added 1 package" {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestFakeCommander_NoMatch(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()

	_, err := fc.Run(context.Background(), "unknown", "command")
	if err == nil {
		t.Fatal("expected error for unregistered command")
	}
}

func TestFakeCommander_DefaultResponse(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.DefaultResponse = &Response{Output: []byte("default"), Err: nil}

	out, err := fc.Run(context.Background(), "any", "command")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "default" {
		t.Errorf("got %q, want %q", string(out), "default")
	}
}

func TestFakeCommander_RecordsCalls(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.DefaultResponse = &Response{}

	fc.Run(context.Background(), "apt-get", "update")
	fc.Run(context.Background(), "npm", "install", "-g", "@openai/codex")

	if len(fc.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(fc.Calls))
	}
	if !fc.Called("apt-get") {
		t.Error("expected apt-get to be called")
	}
	if fc.CallCount("npm") != 1 {
		t.Errorf("expected 1 npm call, got %d", fc.CallCount("npm"))
	}
}

func TestFakeCommander_ErrorResponse(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("npm install", "npm ERR! network\n", fmt.Errorf("exit status 1"))

	out, err := fc.Run(context.Background(), "npm", "install")
	if err == nil {
		t.Fatal("expected error")
	}
	if string(out) != "npm ERR! network\n" {
		t.Errorf("got %q", string(out))
	}
}

func TestFakeCommander_RunWithEnv_RecordsEnvCalls(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.DefaultResponse = &Response{}

	env1 := map[string]string{"SEARCH_API_KEY": "one"}
	env2 := map[string]string{"SEARCH_API_KEY": "two", "EXTRA": "val"}

	fc.RunWithEnv(context.Background(), env1, "claude", "mcp", "add", "a")
	fc.RunWithEnv(context.Background(), env2, "claude", "mcp", "add", "b")

	if len(fc.EnvCalls) != 2 {
		t.Fatalf("expected 2 EnvCalls, got %d", len(fc.EnvCalls))
	}
	if fc.EnvCalls[0]["SEARCH_API_KEY"] != "one" {
		t.Errorf("EnvCalls[0]: got %q", fc.EnvCalls[0]["SEARCH_API_KEY"])
	}
	if fc.EnvCalls[1]["EXTRA"] != "val" {
		t.Errorf("EnvCalls[1] EXTRA: got %q", fc.EnvCalls[1]["EXTRA"])
	}
	if fc.CallCount("claude mcp add") != 2 {
		t.Errorf("expected 2 mcp add calls, got %d", fc.CallCount("claude mcp add"))
	}
}

func TestFakeCommander_LookPath(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	if _, err := fc.LookPath("gemini"); !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	fc.Install("gemini")
	p, err := fc.LookPath("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "/usr/local/bin/gemini" {
		t.Errorf("got %q", p)
	}
}

func TestFakeCommander_OnSuccess(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("npm install -g @anthropic-ai/claude-code", "", nil)
	fc.Register("npm install -g broken", "", fmt.Errorf("exit status 1"))
	fc.OnSuccess("npm install -g @anthropic-ai/claude-code", func() { fc.Install("claude") })
	fc.OnSuccess("npm install -g broken", func() { fc.Install("broken") })

	fc.Run(context.Background(), "npm", "install", "-g", "broken")
	if _, err := fc.LookPath("broken"); err == nil {
		t.Error("effect must not run for a failing command")
	}

	fc.Run(context.Background(), "npm", "install", "-g", "@anthropic-ai/claude-code")
	if _, err := fc.LookPath("claude"); err != nil {
		t.Errorf("expected claude on PATH after install: %v", err)
	}
}
