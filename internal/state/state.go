package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// State는 마지막 bootstrap 실행 결과 기록이다. 존재 판정에는 쓰지 않는다.
type State struct {
	Version int              `json:"version"`
	LastRun string           `json:"last_run,omitempty"`
	Units   map[string]Entry `json:"units"`
}

// Entry는 단위 하나의 마지막 결과다.
type Entry struct {
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
	At      string `json:"at"`
}

// New는 빈 State를 생성한다.
func New() *State {
	return &State{Version: 1, Units: make(map[string]Entry)}
}

// Load는 상태 파일을 파싱한다. 파일 없음/파싱 실패 시 빈 State 반환 (graceful).
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("state.Load: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return New(), nil
	}
	if s.Units == nil {
		s.Units = make(map[string]Entry)
	}
	return &s, nil
}

// Record는 단위 결과를 기록한다.
func (s *State) Record(name string, e Entry, at time.Time) {
	e.At = at.UTC().Format(time.RFC3339)
	s.Units[name] = e
	s.LastRun = e.At
}

// Names는 기록된 단위 이름을 정렬하여 반환한다.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.Units))
	for name := range s.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save는 State를 JSON 파일로 저장한다 (0600 권한).
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("state.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("state.Save: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
