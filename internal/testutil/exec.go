package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Response represents a pre-configured command response for FakeCommander.
type Response struct {
	Output []byte
	Err    error
}

// FakeCommander returns pre-configured responses for testing.
// Responses are keyed by "name arg1 arg2 ..." format.
// If no exact match is found, it tries prefix matching.
type FakeCommander struct {
	// Responses maps command strings to their responses.
	// Key format: "command arg1 arg2" (e.g., "npm install", "claude mcp get search")
	Responses map[string]Response

	// Paths maps executable names to the path LookPath reports for them.
	// Names not in Paths are reported as exec.ErrNotFound.
	Paths map[string]string

	// Effects run after a successful command whose full string starts with the key.
	// Tests use them to model side effects such as an install putting a binary on PATH.
	Effects map[string]func()

	// Calls records all commands that were executed, in order.
	Calls []string

	// EnvCalls records the environment variable maps passed to RunWithEnv, in order.
	EnvCalls []map[string]string

	// DefaultResponse is returned when no matching response is found.
	// If nil, an error is returned for unmatched commands.
	DefaultResponse *Response
}

// NewFakeCommander creates a FakeCommander with empty response and path maps.
func NewFakeCommander() *FakeCommander {
	return &FakeCommander{
		Responses: make(map[string]Response),
		Paths:     make(map[string]string),
		Effects:   make(map[string]func()),
	}
}

// Register adds a response for the given command key.
func (c *FakeCommander) Register(key string, output string, err error) {
	c.Responses[key] = Response{
		Output: []byte(output),
		Err:    err,
	}
}

// Install marks binary as present on PATH under /usr/local/bin.
func (c *FakeCommander) Install(binary string) {
	c.Paths[binary] = "/usr/local/bin/" + binary
}

// OnSuccess registers fn to run after a successful command matching the key prefix.
func (c *FakeCommander) OnSuccess(key string, fn func()) {
	c.Effects[key] = fn
}

// Run looks up the command in Responses and returns the matching response.
func (c *FakeCommander) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	fullCmd := name
	if len(args) > 0 {
		fullCmd = name + " " + strings.Join(args, " ")
	}

	c.Calls = append(c.Calls, fullCmd)

	resp, ok := c.lookup(fullCmd)
	if !ok {
		return nil, fmt.Errorf("FakeCommander: no response registered for %q", fullCmd)
	}
	if resp.Err == nil {
		c.applyEffects(fullCmd)
	}
	return resp.Output, resp.Err
}

func (c *FakeCommander) lookup(fullCmd string) (Response, bool) {
	// Exact match first.
	if resp, ok := c.Responses[fullCmd]; ok {
		return resp, true
	}

	// Try prefix matching (longest prefix wins).
	bestKey := ""
	for key := range c.Responses {
		if strings.HasPrefix(fullCmd, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return c.Responses[bestKey], true
	}

	if c.DefaultResponse != nil {
		return *c.DefaultResponse, true
	}
	return Response{}, false
}

func (c *FakeCommander) applyEffects(fullCmd string) {
	for key, fn := range c.Effects {
		if strings.HasPrefix(fullCmd, key) {
			fn()
		}
	}
}

// RunWithEnv records the environment variables and delegates to Run logic.
func (c *FakeCommander) RunWithEnv(ctx context.Context, env map[string]string, name string, args ...string) ([]byte, error) {
	c.EnvCalls = append(c.EnvCalls, env)
	return c.Run(ctx, name, args...)
}

// LookPath reports the path registered in Paths.
func (c *FakeCommander) LookPath(name string) (string, error) {
	if p, ok := c.Paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Called returns true if a command matching the given prefix was executed.
func (c *FakeCommander) Called(prefix string) bool {
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

// CallCount returns the number of times a command matching the given prefix was executed.
func (c *FakeCommander) CallCount(prefix string) int {
	count := 0
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}
