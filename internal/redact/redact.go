// Package redact masks API credentials in text that is about to be logged.
package redact

import (
	"regexp"
	"strings"
)

var prefixes = []string{"sk-ant-", "sk-proj-", "sk-", "AIza", "BSA", "ghp_", "gho_", "github_pat_"}

var tokenPattern = regexp.MustCompile(`(sk-ant-|sk-proj-|sk-|AIza|BSA|ghp_|gho_|github_pat_)[A-Za-z0-9_\-]{8,}`)

// Mask는 알려진 토큰 패턴을 접두사만 남기고 마스킹한다.
func Mask(s string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		for _, prefix := range prefixes {
			if strings.HasPrefix(match, prefix) {
				return prefix + "****"
			}
		}
		return match
	})
}

// MaskValues는 s에 그대로 등장하는 secrets 값을 모두 마스킹한 뒤 Mask를 적용한다.
func MaskValues(s string, secrets map[string]string) string {
	for _, v := range secrets {
		if len(v) >= 4 {
			s = strings.ReplaceAll(s, v, "****")
		}
	}
	return Mask(s)
}
