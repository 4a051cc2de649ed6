// Package devcontainer reads, validates and scaffolds devcontainer.json.
// The file is JSONC: comments and trailing commas are stripped before decoding.
package devcontainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"mvdan.cc/sh/v3/syntax"
)

// ErrInvalid는 devcontainer 정의가 유효하지 않을 때 반환된다.
var ErrInvalid = errors.New("devcontainer 정의 오류")

// Config는 devcontainer.json 중 idobata가 다루는 필드다.
type Config struct {
	Name              string                    `json:"name,omitempty"`
	Image             string                    `json:"image,omitempty"`
	Build             *Build                    `json:"build,omitempty"`
	Features          map[string]map[string]any `json:"features,omitempty"`
	ForwardPorts      []int                     `json:"forwardPorts,omitempty"`
	Mounts            []string                  `json:"mounts,omitempty"`
	ContainerEnv      map[string]string         `json:"containerEnv,omitempty"`
	RemoteEnv         map[string]string         `json:"remoteEnv,omitempty"`
	RemoteUser        string                    `json:"remoteUser,omitempty"`
	OnCreateCommand   *Command                  `json:"onCreateCommand,omitempty"`
	PostCreateCommand *Command                  `json:"postCreateCommand,omitempty"`
	PostStartCommand  *Command                  `json:"postStartCommand,omitempty"`
	PostAttachCommand *Command                  `json:"postAttachCommand,omitempty"`
	WorkspaceFolder   string                    `json:"workspaceFolder,omitempty"`
	Customizations    map[string]any            `json:"customizations,omitempty"`
}

// Build는 이미지 빌드 설정이다.
type Build struct {
	Dockerfile string            `json:"dockerfile,omitempty"`
	Context    string            `json:"context,omitempty"`
	Args       map[string]string `json:"args,omitempty"`
}

// Command는 lifecycle hook 명령이다. 문자열, 문자열 배열, 이름별 병렬 명령 셋 중 하나다.
type Command struct {
	Shell    string
	Exec     []string
	Parallel map[string]Command
}

// UnmarshalJSON은 세 가지 형태를 모두 받는다.
func (c *Command) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Shell = s
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		c.Exec = arr
		return nil
	}
	var m map[string]Command
	if err := json.Unmarshal(data, &m); err == nil {
		c.Parallel = m
		return nil
	}
	return fmt.Errorf("devcontainer: lifecycle 명령은 string, []string, object 중 하나여야 합니다: %s", data)
}

// MarshalJSON은 설정된 형태 그대로 직렬화한다.
func (c Command) MarshalJSON() ([]byte, error) {
	switch {
	case c.Parallel != nil:
		return json.Marshal(c.Parallel)
	case c.Exec != nil:
		return json.Marshal(c.Exec)
	default:
		return json.Marshal(c.Shell)
	}
}

// Parse는 JSONC 데이터를 Config로 변환한다.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("devcontainer.Parse: %w", err)
	}
	return &cfg, nil
}

// Load는 path의 devcontainer.json을 읽는다.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devcontainer.Load: %w", err)
	}
	return Parse(data)
}

// Marshal은 Config를 들여쓴 JSON으로 직렬화한다.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("devcontainer.Marshal: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate는 정의의 문제를 모두 모아 반환한다.
func (c *Config) Validate() error {
	var problems []string

	if c.Image == "" && (c.Build == nil || c.Build.Dockerfile == "") {
		problems = append(problems, "image 또는 build.dockerfile 필수")
	}
	for _, p := range c.ForwardPorts {
		if p < 1 || p > 65535 {
			problems = append(problems, fmt.Sprintf("forwardPorts: 범위 밖 포트 %d", p))
		}
	}
	for i, m := range c.Mounts {
		if !strings.Contains(m, "source=") && !strings.Contains(m, "target=") {
			problems = append(problems, fmt.Sprintf("mounts[%d]: source=/target= 형식이 아닙니다: %q", i, m))
		}
	}

	hooks := []struct {
		name string
		cmd  *Command
	}{
		{"onCreateCommand", c.OnCreateCommand},
		{"postCreateCommand", c.PostCreateCommand},
		{"postStartCommand", c.PostStartCommand},
		{"postAttachCommand", c.PostAttachCommand},
	}
	for _, h := range hooks {
		if h.cmd == nil {
			continue
		}
		problems = append(problems, validateCommand(h.name, *h.cmd)...)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("devcontainer.Validate: %w: %s", ErrInvalid, strings.Join(problems, "; "))
}

func validateCommand(field string, cmd Command) []string {
	var problems []string
	switch {
	case cmd.Parallel != nil:
		names := make([]string, 0, len(cmd.Parallel))
		for name := range cmd.Parallel {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			problems = append(problems, validateCommand(field+"."+name, cmd.Parallel[name])...)
		}
	case cmd.Exec != nil:
		if len(cmd.Exec) == 0 || cmd.Exec[0] == "" {
			problems = append(problems, field+": 빈 명령")
		}
	default:
		if strings.TrimSpace(cmd.Shell) == "" {
			problems = append(problems, field+": 빈 명령")
			break
		}
		if _, err := syntax.NewParser().Parse(strings.NewReader(cmd.Shell), field); err != nil {
			problems = append(problems, fmt.Sprintf("%s: 셸 문법 오류: %v", field, err))
		}
	}
	return problems
}
