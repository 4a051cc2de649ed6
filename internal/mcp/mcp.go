// Package mcp registers MCP servers with an external AI CLI through its
// "mcp add" subcommand. Registration is skipped when the server is already
// known to the CLI or when one of its credentials is absent.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hbjs97/idobata/internal/cmdexec"
	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/redact"
)

// ErrMissingEnv는 서버에 필요한 환경변수가 없을 때 반환된다.
var ErrMissingEnv = errors.New("필수 환경변수 없음")

// Outcome은 Ensure 결과다.
type Outcome string

const (
	// OutcomePresent는 이미 등록되어 있어 건너뛴 경우다.
	OutcomePresent Outcome = "present"
	// OutcomeAdded는 새로 등록한 경우다.
	OutcomeAdded Outcome = "added"
	// OutcomeSkipped는 필수 환경변수가 없어 등록하지 않은 경우다.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed는 등록 명령이 실패한 경우다.
	OutcomeFailed Outcome = "failed"
)

// ManualStepError는 등록 실패 시 사용자가 직접 실행할 명령을 담는다.
type ManualStepError struct {
	Server  string
	Command string
	Output  string
	Err     error
}

func (e *ManualStepError) Error() string {
	return fmt.Sprintf("mcp: %s 등록 실패: %v — 직접 실행하세요: %s", e.Server, e.Err, e.Command)
}

func (e *ManualStepError) Unwrap() error { return e.Err }

// Registrar는 외부 CLI의 mcp 서브커맨드를 호출한다.
type Registrar struct {
	Commander cmdexec.Commander
	CLI       string
}

// NewRegistrar는 cli를 사용하는 Registrar를 생성한다. cli가 비어있으면 claude를 사용한다.
func NewRegistrar(cmd cmdexec.Commander, cli string) *Registrar {
	if cli == "" {
		cli = config.DefaultMCPCLI
	}
	return &Registrar{Commander: cmd, CLI: cli}
}

// Available은 외부 CLI가 PATH에 있는지 확인한다.
func (r *Registrar) Available() bool {
	_, err := r.Commander.LookPath(r.CLI)
	return err == nil
}

// Registered는 "<cli> mcp get <name>"이 성공하면 등록된 것으로 판정한다.
func (r *Registrar) Registered(ctx context.Context, name string) bool {
	_, err := r.Commander.Run(ctx, r.CLI, "mcp", "get", name)
	return err == nil
}

// AddArgs는 mcp add 인자를 고정된 형태(name, scope, -e, --, command)로 만든다.
func AddArgs(server config.MCPServer, env map[string]string) []string {
	args := []string{"mcp", "add", server.Name, "-s", server.Scope}
	for _, key := range sortedKeys(server.Env) {
		args = append(args, "-e", key+"="+env[key])
	}
	args = append(args, "--")
	return append(args, server.Command...)
}

// ManualCommand는 비밀값 대신 $KEY 참조를 넣은 수동 등록 명령이다.
func (r *Registrar) ManualCommand(server config.MCPServer) string {
	placeholders := make(map[string]string, len(server.Env))
	for _, key := range server.Env {
		placeholders[key] = "$" + key
	}
	return r.CLI + " " + strings.Join(AddArgs(server, placeholders), " ")
}

// Add는 서버를 등록한다.
func (r *Registrar) Add(ctx context.Context, server config.MCPServer, env map[string]string) error {
	out, err := r.Commander.Run(ctx, r.CLI, AddArgs(server, env)...)
	if err != nil {
		return &ManualStepError{
			Server:  server.Name,
			Command: r.ManualCommand(server),
			Output:  redact.MaskValues(strings.TrimSpace(string(out)), env),
			Err:     err,
		}
	}
	return nil
}

// Ensure는 등록되지 않은 서버만 등록한다.
// 필수 환경변수가 없으면 ErrMissingEnv와 함께 OutcomeSkipped를 반환한다.
func (r *Registrar) Ensure(ctx context.Context, server config.MCPServer, lookupEnv func(string) (string, bool)) (Outcome, error) {
	if r.Registered(ctx, server.Name) {
		return OutcomePresent, nil
	}

	if missing := MissingEnv(server, lookupEnv); len(missing) > 0 {
		return OutcomeSkipped, fmt.Errorf("mcp.Ensure: %s: %w: %s", server.Name, ErrMissingEnv, strings.Join(missing, ", "))
	}

	env := make(map[string]string, len(server.Env))
	for _, key := range server.Env {
		env[key], _ = lookupEnv(key)
	}
	if err := r.Add(ctx, server, env); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeAdded, nil
}

// MissingEnv는 server.Env 중 값이 없거나 비어있는 키를 반환한다.
func MissingEnv(server config.MCPServer, lookupEnv func(string) (string, bool)) []string {
	var missing []string
	for _, key := range server.Env {
		if v, ok := lookupEnv(key); !ok || v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func sortedKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
