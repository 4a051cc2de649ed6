package cli

import (
	"github.com/hbjs97/idobata/internal/bootstrap"
	"github.com/hbjs97/idobata/internal/config"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrFatal은 required preflight 실패로 bootstrap이 중단될 때의 sentinel error다.
	ErrFatal = bootstrap.ErrFatal
	// ErrConfig는 manifest 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
)
