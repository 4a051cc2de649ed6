package shell

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/hbjs97/idobata/internal/envfile"
)

// Exports는 env 항목을 셸별 export 명령으로 변환한다.
func Exports(entries []envfile.Entry, shellType string) (string, error) {
	var b strings.Builder
	for _, e := range entries {
		switch shellType {
		case "fish":
			fmt.Fprintf(&b, "set -gx %s %s\n", e.Key, fishQuote(e.Value))
		default: // bash, zsh, sh
			q, err := syntax.Quote(e.Value, langFor(shellType))
			if err != nil {
				return "", fmt.Errorf("shell.Exports: %s: %w", e.Key, err)
			}
			fmt.Fprintf(&b, "export %s=%s\n", e.Key, q)
		}
	}
	return b.String(), nil
}

// Unsets는 env 항목을 해제하는 명령을 생성한다.
func Unsets(entries []envfile.Entry, shellType string) string {
	var b strings.Builder
	for _, e := range entries {
		if shellType == "fish" {
			fmt.Fprintf(&b, "set -e %s\n", e.Key)
		} else {
			fmt.Fprintf(&b, "unset %s\n", e.Key)
		}
	}
	return b.String()
}

// Supported는 HookSnippet이 지원하는 셸인지 반환한다.
func Supported(shellType string) bool {
	switch shellType {
	case "zsh", "bash", "sh", "fish":
		return true
	}
	return false
}

// HookSnippet은 새 셸마다 envFile을 다시 export하는 프로필 블록 내용을 반환한다.
// 지원하지 않는 셸이면 빈 문자열을 반환한다.
func HookSnippet(shellType, envFile string) (string, error) {
	switch shellType {
	case "zsh", "bash", "sh":
		q, err := syntax.Quote(envFile, langFor(shellType))
		if err != nil {
			return "", fmt.Errorf("shell.HookSnippet: %w", err)
		}
		return fmt.Sprintf(`if command -v idobata >/dev/null 2>&1; then
  eval "$(idobata env --shell %s --file %s 2>/dev/null)"
fi`, shellType, q), nil
	case "fish":
		return fmt.Sprintf(`if command -q idobata
  idobata env --shell fish --file %s 2>/dev/null | source
end`, fishQuote(envFile)), nil
	default:
		return "", nil
	}
}

func langFor(shellType string) syntax.LangVariant {
	switch shellType {
	case "sh":
		return syntax.LangPOSIX
	default: // zsh는 bash 인용 규칙과 호환된다
		return syntax.LangBash
	}
}

// fishQuote는 fish 작은따옴표 규칙(\\, \')으로 값을 감싼다.
func fishQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
