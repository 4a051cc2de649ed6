package devcontainer

// Default는 idobata run을 postCreateCommand로 실행하는 기본 정의다.
func Default(name string) *Config {
	return &Config{
		Name: name,
		Build: &Build{
			Dockerfile: "Dockerfile",
			Context:    "..",
		},
		Features: map[string]map[string]any{
			"ghcr.io/devcontainers/features/node:1":   {"version": "lts"},
			"ghcr.io/devcontainers/features/python:1": {"version": "3.12"},
			"ghcr.io/devcontainers/features/go:1":     {"version": "latest"},
		},
		ForwardPorts: []int{3000, 8000},
		Mounts: []string{
			"source=idobata-claude,target=/home/vscode/.claude,type=volume",
			"source=${localEnv:HOME}/.gitconfig,target=/home/vscode/.gitconfig,type=bind,readonly",
		},
		ContainerEnv: map[string]string{
			"IDOBATA_WORKSPACE": "${containerWorkspaceFolder}",
		},
		RemoteEnv: map[string]string{
			"ANTHROPIC_API_KEY": "${localEnv:ANTHROPIC_API_KEY}",
			"GEMINI_API_KEY":    "${localEnv:GEMINI_API_KEY}",
			"OPENAI_API_KEY":    "${localEnv:OPENAI_API_KEY}",
			"BRAVE_API_KEY":     "${localEnv:BRAVE_API_KEY}",
		},
		RemoteUser:        "vscode",
		PostCreateCommand: &Command{Shell: "idobata run --config .devcontainer/bootstrap.toml"},
	}
}
