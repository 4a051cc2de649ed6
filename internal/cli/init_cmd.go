package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/config"
)

func (a *App) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "기본 bootstrap manifest를 생성한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

// runInit는 manifest 템플릿을 생성한다.
func (a *App) runInit(cmd *cobra.Command) error {
	if _, err := os.Stat(a.CfgPath); err == nil {
		return fmt.Errorf("cli.init: manifest가 이미 존재합니다: %s", a.CfgPath)
	}

	if err := os.MkdirAll(filepath.Dir(a.CfgPath), 0700); err != nil {
		return fmt.Errorf("cli.init: 디렉토리 생성 실패: %w", err)
	}
	if err := os.WriteFile(a.CfgPath, []byte(config.DefaultManifest), 0600); err != nil {
		return fmt.Errorf("cli.init: manifest 생성 실패: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "manifest가 생성되었습니다: %s\n", a.CfgPath)
	fmt.Fprintln(out, "단위를 수정한 후 idobata run --dry-run으로 확인하세요.")
	return nil
}
