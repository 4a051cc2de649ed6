package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DefaultManifest는 idobata init이 생성하는 기본 bootstrap.toml 내용이다.
const DefaultManifest = `# idobata bootstrap manifest
# 각 단위는 존재 여부를 먼저 확인하고 없을 때만 설치/추가한다.

version = 1
# profile = "~/.bashrc"
env_file = ".env"
# env_hook = true
mcp_cli = "claude"

[[preflight]]
name = "apt-update"
command = ["sudo", "apt-get", "update"]
required = true

[[preflight]]
name = "python3"
command = ["python3", "--version"]
required = true

[[tools]]
name = "claude-code"
binary = "claude"
install = ["npm", "install", "-g", "@anthropic-ai/claude-code"]
env_required = ["ANTHROPIC_API_KEY"]

[[tools]]
name = "gemini-cli"
binary = "gemini"
install = ["npm", "install", "-g", "@google/gemini-cli"]
env_required = ["GEMINI_API_KEY"]

[[tools]]
name = "codex"
binary = "codex"
install = ["npm", "install", "-g", "@openai/codex"]
env_required = ["OPENAI_API_KEY"]

[[tools]]
name = "uv"
binary = "uvx"
install = ["pip", "install", "--user", "uv"]

[[profile_blocks]]
marker = "local-bin"
content = 'export PATH="$HOME/.local/bin:$PATH"'

[[templates]]
path = "tasks.yaml"
kind = "tasks"

[[templates]]
path = "Makefile"
kind = "runner"

[[mcp]]
name = "brave-search"
scope = "user"
env = ["BRAVE_API_KEY"]
command = ["npx", "-y", "@modelcontextprotocol/server-brave-search"]

[[mcp]]
name = "serena"
scope = "user"
command = ["uvx", "--from", "git+https://github.com/oraios/serena", "serena", "start-mcp-server", "--context", "ide-assistant"]
`

// Default는 DefaultManifest를 파싱한 Config를 반환한다.
func Default() (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(DefaultManifest, &cfg); err != nil {
		return nil, fmt.Errorf("config.Default: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
