package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hbjs97/idobata/internal/config"
)

// TaskList는 roundtable 작업 목록 descriptor다.
type TaskList struct {
	Version      int      `yaml:"version"`
	Project      string   `yaml:"project"`
	Participants []string `yaml:"participants"`
	Tasks        []Task   `yaml:"tasks"`
}

// Task는 작업 목록의 한 항목이다.
type Task struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Owner  string `yaml:"owner"`
	Status string `yaml:"status"`
}

// DefaultTaskList는 새 workspace용 작업 목록을 반환한다.
func DefaultTaskList(project string) *TaskList {
	return &TaskList{
		Version:      1,
		Project:      project,
		Participants: []string{"claude", "gemini", "codex"},
		Tasks: []Task{
			{ID: "init", Title: "/idobata-init 으로 roundtable 시작", Owner: "claude", Status: "todo"},
			{ID: "review", Title: "제안 교차 검토", Owner: "gemini", Status: "todo"},
			{ID: "implement", Title: "합의안 구현", Owner: "codex", Status: "todo"},
		},
	}
}

// RenderTaskList는 작업 목록을 YAML로 직렬화한다.
func RenderTaskList(tl *TaskList) ([]byte, error) {
	out, err := yaml.Marshal(tl)
	if err != nil {
		return nil, fmt.Errorf("scaffold.RenderTaskList: %w", err)
	}
	return append([]byte("# idobata roundtable task list\n"), out...), nil
}

// ParseTaskList는 YAML 작업 목록을 읽는다.
func ParseTaskList(data []byte) (*TaskList, error) {
	var tl TaskList
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("scaffold.ParseTaskList: %w", err)
	}
	return &tl, nil
}

var runnerTargets = []struct {
	name string
	help string
	cmd  string
}{
	{"bootstrap", "provision tools, profile and MCP servers", "idobata run"},
	{"doctor", "diagnose the sandbox", "idobata doctor"},
	{"status", "show the last bootstrap outcome", "idobata status"},
	{"commands", "install roundtable slash-commands", "idobata docs install"},
}

// RenderTaskRunner는 task-runner 정의(Makefile)를 생성한다.
func RenderTaskRunner() []byte {
	var b strings.Builder
	b.WriteString("# idobata task runner\n")
	names := make([]string, 0, len(runnerTargets))
	for _, t := range runnerTargets {
		names = append(names, t.name)
	}
	fmt.Fprintf(&b, ".PHONY: help %s\n\n", strings.Join(names, " "))
	b.WriteString("help:\n")
	for _, t := range runnerTargets {
		fmt.Fprintf(&b, "\t@echo \"%-10s %s\"\n", t.name, t.help)
	}
	for _, t := range runnerTargets {
		fmt.Fprintf(&b, "\n%s:\n\t%s\n", t.name, t.cmd)
	}
	return []byte(b.String())
}

// Render는 템플릿 종류에 맞는 내용을 생성한다.
func Render(kind, project string) ([]byte, error) {
	switch kind {
	case config.KindTasks:
		return RenderTaskList(DefaultTaskList(project))
	case config.KindRunner:
		return RenderTaskRunner(), nil
	default:
		return nil, fmt.Errorf("scaffold.Render: 알 수 없는 템플릿 종류: %q", kind)
	}
}

// EnsureFile은 path가 없을 때만 content로 생성한다. 생성했으면 true를 반환한다.
func EnsureFile(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("scaffold.EnsureFile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("scaffold.EnsureFile: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("scaffold.EnsureFile: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return false, fmt.Errorf("scaffold.EnsureFile: %w", err)
	}
	return true, nil
}
