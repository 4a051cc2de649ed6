// Package envfile parses newline-delimited KEY=VALUE environment files.
// Comment and blank lines are ignored, malformed lines are skipped and
// reported, and well-formed values are kept verbatim.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ErrNotFound는 env 파일이 존재하지 않을 때 반환된다.
var ErrNotFound = errors.New("env 파일 없음")

var keyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Entry는 env 파일의 한 항목이다.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// File은 파싱된 env 파일이다.
type File struct {
	Entries []Entry
	// Skipped는 형식이 잘못되어 무시된 줄 번호다 (1부터 시작).
	Skipped []int
}

// Parse는 r에서 env 항목을 읽는다.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		idx := strings.Index(raw, "=")
		if idx < 0 {
			f.Skipped = append(f.Skipped, lineNo)
			continue
		}
		key := strings.TrimSpace(raw[:idx])
		if fields := strings.Fields(key); len(fields) == 2 && fields[0] == "export" {
			key = fields[1]
		}
		if !keyRegex.MatchString(key) {
			f.Skipped = append(f.Skipped, lineNo)
			continue
		}
		f.Entries = append(f.Entries, Entry{Key: key, Value: raw[idx+1:], Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("envfile.Parse: %w", err)
	}
	return f, nil
}

// Load는 path의 env 파일을 파싱한다.
// 파일이 없으면 빈 File과 ErrNotFound를 함께 반환한다.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		return &File{}, fmt.Errorf("envfile.Load: %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("envfile.Load: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Map은 키별 마지막 값을 반환한다.
func (f *File) Map() map[string]string {
	m := make(map[string]string, len(f.Entries))
	for _, e := range f.Entries {
		m[e.Key] = e.Value
	}
	return m
}

// Apply는 항목을 순서대로 setenv에 전달한다. 같은 키는 나중 값이 남는다.
func (f *File) Apply(setenv func(key, value string) error) error {
	for _, e := range f.Entries {
		if err := setenv(e.Key, e.Value); err != nil {
			return fmt.Errorf("envfile.Apply: %s: %w", e.Key, err)
		}
	}
	return nil
}
