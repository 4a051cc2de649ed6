package cli

import (
	"errors"
)

// ExitCode는 idobata의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다. 경고만 있는 bootstrap도 성공이다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitFatal는 required preflight 실패로 중단된 경우다.
	ExitFatal ExitCode = 2
	// ExitConfigError는 manifest 오류다.
	ExitConfigError ExitCode = 5
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrFatal):
		return ExitFatal
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitGeneral
	}
}
