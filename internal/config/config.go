package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hbjs97/idobata/internal/profile"
)

// ErrConfig는 manifest 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("manifest 오류")

// 템플릿 종류.
const (
	KindTasks  = "tasks"
	KindRunner = "runner"
)

// DefaultMCPCLI는 MCP 등록에 사용하는 외부 CLI다.
const DefaultMCPCLI = "claude"

// 예약된 단위 이름. env 파일 활성화와 env 재export hook 블록에 쓰인다.
const (
	EnvUnit       = "env"
	EnvHookMarker = "env-hook"
)

var (
	validScopes = map[string]bool{"local": true, "user": true, "project": true}
	envKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Config는 bootstrap manifest의 최상위 구조체다.
type Config struct {
	Version       int            `toml:"version"`
	Profile       string         `toml:"profile"`
	EnvFile       string         `toml:"env_file"`
	EnvHook       *bool          `toml:"env_hook"`
	Workspace     string         `toml:"workspace"`
	MCPCLI        string         `toml:"mcp_cli"`
	Preflight     []Preflight    `toml:"preflight"`
	Tools         []Tool         `toml:"tools"`
	ProfileBlocks []ProfileBlock `toml:"profile_blocks"`
	Templates     []Template     `toml:"templates"`
	MCP           []MCPServer    `toml:"mcp"`
}

// Preflight는 본 설치 전에 실행하는 명령이다. Required면 실패 시 전체가 중단된다.
type Preflight struct {
	Name     string   `toml:"name"`
	Command  []string `toml:"command"`
	Required bool     `toml:"required"`
}

// Tool은 PATH 존재 여부로 판정하는 CLI 설치 단위다.
type Tool struct {
	Name        string   `toml:"name"`
	Binary      string   `toml:"binary"`
	Install     []string `toml:"install"`
	EnvRequired []string `toml:"env_required"`
}

// ProfileBlock은 셸 프로필에 marker로 구분되어 한 번만 추가되는 블록이다.
type ProfileBlock struct {
	Marker  string `toml:"marker"`
	Content string `toml:"content"`
}

// Template은 없을 때만 생성되는 파일이다.
type Template struct {
	Path string `toml:"path"`
	Kind string `toml:"kind"`
}

// MCPServer는 외부 CLI의 mcp add로 등록하는 서버다.
type MCPServer struct {
	Name    string   `toml:"name"`
	Scope   string   `toml:"scope"`
	Env     []string `toml:"env"`
	Command []string `toml:"command"`
}

// Load는 bootstrap.toml을 파싱하여 Config를 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 Config를 TOML로 저장한다 (0600 권한, 상위 디렉토리 자동 생성).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsEnvHook는 env_hook 설정값을 반환한다.
func (c *Config) IsEnvHook() bool {
	if c.EnvHook == nil {
		return true
	}
	return *c.EnvHook
}

// WorkspacePath는 workspace 기준으로 상대 경로를 해석한다.
func (c *Config) WorkspacePath(p string) string {
	p = ExpandPath(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Workspace, p)
}

// UnitNames는 --only 필터에 사용할 수 있는 모든 단위 이름을 실행 순서대로 반환한다.
func (c *Config) UnitNames() []string {
	var names []string
	for _, p := range c.Preflight {
		names = append(names, p.Name)
	}
	for _, t := range c.Tools {
		names = append(names, t.Name)
	}
	if c.IsEnvHook() {
		names = append(names, EnvHookMarker)
	}
	for _, b := range c.ProfileBlocks {
		names = append(names, b.Marker)
	}
	for _, t := range c.Templates {
		names = append(names, t.Path)
	}
	for _, m := range c.MCP {
		names = append(names, m.Name)
	}
	return names
}

// ExpandPath는 "~/" 접두사를 홈 디렉토리로 치환한다.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Workspace == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Workspace = wd
		}
	}
	c.Workspace = ExpandPath(c.Workspace)
	if c.Profile == "" {
		c.Profile = profile.RCPath(profile.DetectShell())
	}
	c.Profile = ExpandPath(c.Profile)
	if c.EnvFile == "" {
		c.EnvFile = ".env"
	}
	c.EnvFile = c.WorkspacePath(c.EnvFile)
	if c.EnvHook == nil {
		t := true
		c.EnvHook = &t
	}
	if c.MCPCLI == "" {
		c.MCPCLI = DefaultMCPCLI
	}
	for i := range c.Tools {
		if c.Tools[i].Binary == "" {
			c.Tools[i].Binary = c.Tools[i].Name
		}
	}
	for i := range c.MCP {
		if c.MCP[i].Scope == "" {
			c.MCP[i].Scope = "user"
		}
	}
}

func (c *Config) validate() error {
	if c.Profile == "" {
		return invalid("profile 경로를 결정할 수 없습니다 ($SHELL 확인 또는 profile 지정)")
	}

	seen := map[string]string{EnvUnit: "reserved", EnvHookMarker: "reserved"}
	claim := func(section, name string) error {
		if name == "" {
			return invalid("%s: name 필수", section)
		}
		if prev, ok := seen[name]; ok {
			return invalid("%s.%s: 이름이 %s와 중복됩니다", section, name, prev)
		}
		seen[name] = section
		return nil
	}

	for _, p := range c.Preflight {
		if err := claim("preflight", p.Name); err != nil {
			return err
		}
		if len(p.Command) == 0 {
			return invalid("preflight.%s.command 필수", p.Name)
		}
	}
	for _, t := range c.Tools {
		if err := claim("tools", t.Name); err != nil {
			return err
		}
		if len(t.Install) == 0 {
			return invalid("tools.%s.install 필수", t.Name)
		}
		if err := validateEnvKeys("tools."+t.Name+".env_required", t.EnvRequired); err != nil {
			return err
		}
	}
	for _, b := range c.ProfileBlocks {
		if err := claim("profile_blocks", b.Marker); err != nil {
			return err
		}
		if strings.TrimSpace(b.Content) == "" {
			return invalid("profile_blocks.%s.content 필수", b.Marker)
		}
	}
	for _, t := range c.Templates {
		if err := claim("templates", t.Path); err != nil {
			return err
		}
		if t.Kind != KindTasks && t.Kind != KindRunner {
			return invalid("templates.%s.kind는 %q 또는 %q이어야 합니다: %q", t.Path, KindTasks, KindRunner, t.Kind)
		}
	}
	for _, m := range c.MCP {
		if err := claim("mcp", m.Name); err != nil {
			return err
		}
		if len(m.Command) == 0 {
			return invalid("mcp.%s.command 필수", m.Name)
		}
		if !validScopes[m.Scope] {
			return invalid("mcp.%s.scope는 local, user, project 중 하나여야 합니다: %q", m.Name, m.Scope)
		}
		if err := validateEnvKeys("mcp."+m.Name+".env", m.Env); err != nil {
			return err
		}
	}
	return nil
}

func validateEnvKeys(field string, keys []string) error {
	for _, k := range keys {
		if !envKeyRegex.MatchString(k) {
			return invalid("%s: 잘못된 환경변수 이름 %q", field, k)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config.Load: %w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
