// Package docs bundles the roundtable slash-command references.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hbjs97/idobata/internal/scaffold"
)

//go:embed commands/*.md
var commandsFS embed.FS

// List는 번들된 명령 이름을 정렬하여 반환한다.
func List() []string {
	entries, err := fs.ReadDir(commandsFS, "commands")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Get은 명령 문서를 반환한다. 앞의 "/"는 무시한다.
func Get(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	data, err := commandsFS.ReadFile(path.Join("commands", name+".md"))
	if err != nil {
		return "", fmt.Errorf("docs.Get: 알 수 없는 명령: %s", name)
	}
	return string(data), nil
}

// Install은 dir에 없는 명령 문서만 생성하고, 생성한 파일 경로를 반환한다.
func Install(dir string) ([]string, error) {
	var created []string
	for _, name := range List() {
		body, err := Get(name)
		if err != nil {
			return created, err
		}
		target := filepath.Join(dir, name+".md")
		ok, err := scaffold.EnsureFile(target, []byte(body))
		if err != nil {
			return created, fmt.Errorf("docs.Install: %w", err)
		}
		if ok {
			created = append(created, target)
		}
	}
	return created, nil
}
