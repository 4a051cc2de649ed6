// Package profile mutates shell profile files with marker-delimited blocks.
// A block is appended only when its start marker is absent, so applying the
// same block any number of times leaves exactly one copy in the file.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DetectShell은 현재 사용자의 셸을 감지한다.
func DetectShell() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

// RCPath는 셸별 RC 파일 경로를 반환한다.
func RCPath(shellType string) string {
	home, _ := os.UserHomeDir() // 홈 디렉토리 조회 실패 시 빈 문자열
	switch shellType {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	case "sh":
		return filepath.Join(home, ".profile")
	case "fish":
		return filepath.Join(home, ".config", "fish", "conf.d", "idobata.fish")
	default:
		return ""
	}
}

// StartMarker는 marker 블록의 시작 줄이다.
func StartMarker(marker string) string {
	return fmt.Sprintf("# >>> idobata:%s >>>", marker)
}

// EndMarker는 marker 블록의 끝 줄이다.
func EndMarker(marker string) string {
	return fmt.Sprintf("# <<< idobata:%s <<<", marker)
}

// HasBlock은 path에 marker 블록이 있는지 확인한다. 파일이 없으면 false다.
func HasBlock(path, marker string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("profile.HasBlock: %w", err)
	}
	return strings.Contains(string(data), StartMarker(marker)), nil
}

// EnsureBlock은 marker 블록이 없을 때만 path 끝에 추가한다.
// 파일을 변경했으면 true를 반환한다.
func EnsureBlock(path, marker, content string) (bool, error) {
	present, err := HasBlock(path, marker)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	existing, _ := os.ReadFile(path) // HasBlock에서 존재 여부 확인 완료
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("profile.EnsureBlock: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return false, fmt.Errorf("profile.EnsureBlock: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	if len(existing) > 0 {
		if !strings.HasSuffix(string(existing), "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(StartMarker(marker) + "\n")
	b.WriteString(strings.TrimRight(content, "\n") + "\n")
	b.WriteString(EndMarker(marker) + "\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return false, fmt.Errorf("profile.EnsureBlock: %w", err)
	}
	return true, nil
}

// RemoveBlock은 path에서 marker 블록을 제거한다. 제거했으면 true를 반환한다.
func RemoveBlock(path, marker string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("profile.RemoveBlock: %w", err)
	}

	content := string(data)
	start := strings.Index(content, StartMarker(marker))
	if start == -1 {
		return false, nil
	}
	endRel := strings.Index(content[start:], EndMarker(marker))
	if endRel == -1 {
		return false, fmt.Errorf("profile.RemoveBlock: %s: %q 끝 marker 없음", path, marker)
	}
	end := start + endRel + len(EndMarker(marker))

	before := strings.TrimRight(content[:start], "\n")
	after := strings.TrimLeft(content[end:], "\n")

	var cleaned string
	switch {
	case before == "" && after == "":
		cleaned = ""
	case before == "":
		cleaned = after
	case after == "":
		cleaned = before + "\n"
	default:
		cleaned = before + "\n" + after
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("profile.RemoveBlock: %w", err)
	}
	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("profile.RemoveBlock: %w", err)
	}
	return true, nil
}
