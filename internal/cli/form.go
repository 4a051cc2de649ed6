package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunUnitSelect는 실행할 bootstrap 단위를 고르는 체크리스트를 표시한다.
	RunUnitSelect(names []string) ([]string, error)

	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)
}

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// RunUnitSelect는 모든 단위를 선택된 상태로 표시한다.
func (h *HuhFormRunner) RunUnitSelect(names []string) ([]string, error) {
	selected := append([]string(nil), names...)
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("실행할 단위를 선택하세요").
			Options(huh.NewOptions(names...)...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("cli.RunUnitSelect: %w", err)
	}
	return selected, nil
}

// RunConfirm은 확인 프롬프트를 표시한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("cli.RunConfirm: %w", err)
	}
	return confirmed, nil
}
