package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/idobata/internal/cmdexec"
	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/devcontainer"
	"github.com/hbjs97/idobata/internal/envfile"
	"github.com/hbjs97/idobata/internal/mcp"
	"github.com/hbjs97/idobata/internal/profile"
	"github.com/hbjs97/idobata/internal/scaffold"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// CheckBinaries는 기본 바이너리(node, npm, python3, git) 존재 여부를 확인한다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander) []DiagResult {
	binaries := []struct {
		name    string
		args    []string
		install string
	}{
		{"node", []string{"--version"}, "devcontainer node feature 추가"},
		{"npm", []string{"--version"}, "devcontainer node feature 추가"},
		{"python3", []string{"--version"}, "devcontainer python feature 추가"},
		{"git", []string{"--version"}, "https://git-scm.com/downloads"},
	}

	var results []DiagResult
	for _, b := range binaries {
		out, err := cmd.Run(ctx, b.name, b.args...)
		if err != nil {
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  StatusFail,
				Message: fmt.Sprintf("%s 없음", b.name),
				Fix:     fmt.Sprintf("설치: %s", b.install),
			})
		} else {
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  StatusOK,
				Message: strings.TrimSpace(string(out)),
			})
		}
	}
	return results
}

// CheckTools는 manifest의 CLI 도구가 PATH에 있는지 확인한다.
func CheckTools(cmd cmdexec.Commander, tools []config.Tool) []DiagResult {
	var results []DiagResult
	for _, t := range tools {
		path, err := cmd.LookPath(t.Binary)
		if err != nil {
			results = append(results, DiagResult{
				Name:    "tool_" + t.Name,
				Status:  StatusFail,
				Message: fmt.Sprintf("%s 없음", t.Binary),
				Fix:     fmt.Sprintf("idobata run --only %s", t.Name),
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    "tool_" + t.Name,
			Status:  StatusOK,
			Message: path,
		})
	}
	return results
}

// CheckEnv는 도구와 MCP 서버가 요구하는 환경변수를 확인한다. 없으면 경고다.
func CheckEnv(cfg *config.Config, lookupEnv func(string) (string, bool)) []DiagResult {
	seen := make(map[string]bool)
	var keys []string
	for _, t := range cfg.Tools {
		keys = append(keys, t.EnvRequired...)
	}
	for _, m := range cfg.MCP {
		keys = append(keys, m.Env...)
	}

	var results []DiagResult
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		if v, ok := lookupEnv(key); ok && v != "" {
			results = append(results, DiagResult{Name: "env_" + key, Status: StatusOK, Message: key + " 설정됨"})
			continue
		}
		results = append(results, DiagResult{
			Name:    "env_" + key,
			Status:  StatusWarn,
			Message: key + " 없음",
			Fix:     fmt.Sprintf("%s에 %s=... 추가", cfg.EnvFile, key),
		})
	}
	return results
}

// CheckEnvFile은 env 파일 존재 여부와 무시된 줄을 확인한다.
func CheckEnvFile(path string) DiagResult {
	f, err := envfile.Load(path)
	switch {
	case errors.Is(err, envfile.ErrNotFound):
		return DiagResult{Name: "env_file", Status: StatusWarn, Message: path + " 없음", Fix: "KEY=VALUE 형식으로 " + path + " 작성"}
	case err != nil:
		return DiagResult{Name: "env_file", Status: StatusFail, Message: err.Error()}
	case len(f.Skipped) > 0:
		return DiagResult{
			Name:    "env_file",
			Status:  StatusWarn,
			Message: fmt.Sprintf("형식이 잘못된 줄 무시: %v", f.Skipped),
			Fix:     "KEY=VALUE 형식으로 수정하거나 #으로 주석 처리",
		}
	default:
		return DiagResult{Name: "env_file", Status: StatusOK, Message: fmt.Sprintf("%d개 항목", len(f.Entries))}
	}
}

// CheckProfile은 프로필 블록이 설치되어 있는지 확인한다.
func CheckProfile(path string, markers []string) []DiagResult {
	var results []DiagResult
	for _, m := range markers {
		present, err := profile.HasBlock(path, m)
		switch {
		case err != nil:
			results = append(results, DiagResult{Name: "profile_" + m, Status: StatusFail, Message: err.Error()})
		case present:
			results = append(results, DiagResult{Name: "profile_" + m, Status: StatusOK, Message: path})
		default:
			results = append(results, DiagResult{
				Name:    "profile_" + m,
				Status:  StatusWarn,
				Message: fmt.Sprintf("%s에 %s 블록 없음", path, m),
				Fix:     fmt.Sprintf("idobata run --only %s", m),
			})
		}
	}
	return results
}

// CheckTemplates는 템플릿 파일이 있는지, tasks 템플릿이 YAML로 읽히는지 확인한다.
func CheckTemplates(cfg *config.Config) []DiagResult {
	var results []DiagResult
	for _, t := range cfg.Templates {
		name := "template_" + t.Path
		path := cfg.WorkspacePath(t.Path)
		data, err := os.ReadFile(path)
		if err != nil {
			results = append(results, DiagResult{
				Name:    name,
				Status:  StatusWarn,
				Message: path + " 없음",
				Fix:     fmt.Sprintf("idobata run --only %s", t.Path),
			})
			continue
		}
		if t.Kind == config.KindTasks {
			if _, err := scaffold.ParseTaskList(data); err != nil {
				results = append(results, DiagResult{Name: name, Status: StatusWarn, Message: err.Error()})
				continue
			}
		}
		results = append(results, DiagResult{Name: name, Status: StatusOK, Message: path})
	}
	return results
}

// CheckMCP는 MCP 서버 등록 상태를 확인한다.
func CheckMCP(ctx context.Context, reg *mcp.Registrar, servers []config.MCPServer) []DiagResult {
	if len(servers) == 0 {
		return nil
	}
	if !reg.Available() {
		return []DiagResult{{
			Name:    "mcp_cli",
			Status:  StatusFail,
			Message: reg.CLI + " 없음",
			Fix:     "idobata run으로 " + reg.CLI + " 설치",
		}}
	}

	var results []DiagResult
	for _, s := range servers {
		if reg.Registered(ctx, s.Name) {
			results = append(results, DiagResult{Name: "mcp_" + s.Name, Status: StatusOK, Message: s.Name + " 등록됨"})
			continue
		}
		results = append(results, DiagResult{
			Name:    "mcp_" + s.Name,
			Status:  StatusFail,
			Message: s.Name + " 미등록",
			Fix:     reg.ManualCommand(s),
		})
	}
	return results
}

// CheckDevcontainer는 devcontainer.json을 검증한다. 파일이 없으면 nil이다.
func CheckDevcontainer(path string) *DiagResult {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	cfg, err := devcontainer.Load(path)
	if err != nil {
		return &DiagResult{Name: "devcontainer", Status: StatusFail, Message: err.Error(), Fix: "JSONC 문법 확인"}
	}
	if err := cfg.Validate(); err != nil {
		return &DiagResult{Name: "devcontainer", Status: StatusFail, Message: err.Error()}
	}
	return &DiagResult{Name: "devcontainer", Status: StatusOK, Message: path}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, cfg *config.Config, lookupEnv func(string) (string, bool), devcontainerPath string) []DiagResult {
	var results []DiagResult
	results = append(results, CheckBinaries(ctx, cmd)...)
	results = append(results, CheckTools(cmd, cfg.Tools)...)
	results = append(results, CheckEnvFile(cfg.EnvFile))
	results = append(results, CheckEnv(cfg, lookupEnv)...)

	markers := make([]string, 0, len(cfg.ProfileBlocks)+1)
	if cfg.IsEnvHook() {
		markers = append(markers, config.EnvHookMarker)
	}
	for _, b := range cfg.ProfileBlocks {
		markers = append(markers, b.Marker)
	}
	results = append(results, CheckProfile(cfg.Profile, markers)...)
	results = append(results, CheckTemplates(cfg)...)
	results = append(results, CheckMCP(ctx, mcp.NewRegistrar(cmd, cfg.MCPCLI), cfg.MCP)...)
	if r := CheckDevcontainer(devcontainerPath); r != nil {
		results = append(results, *r)
	}
	return results
}

// Failed는 FAIL 결과가 있는지 반환한다.
func Failed(results []DiagResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
