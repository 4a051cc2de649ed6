package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/bootstrap"
	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/envfile"
	"github.com/hbjs97/idobata/internal/profile"
	"github.com/hbjs97/idobata/internal/shell"
)

func (a *App) newEnvCmd() *cobra.Command {
	var shellType string
	var file string
	var unset bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "env 파일을 셸 export 구문으로 출력한다 (eval \"$(idobata env)\")",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEnv(cmd, shellType, file, unset)
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", "출력 셸 종류 (bash, zsh, sh, fish)")
	cmd.Flags().StringVar(&file, "file", "", "env 파일 경로 (기본: manifest의 env_file)")
	cmd.Flags().BoolVar(&unset, "unset", false, "export 대신 unset 구문 출력")
	return cmd
}

func (a *App) runEnv(cmd *cobra.Command, shellType, file string, unset bool) error {
	if file == "" || shellType == "" {
		cfg, err := config.Load(a.CfgPath)
		switch {
		case err == nil:
			if file == "" {
				file = cfg.EnvFile
			}
			if shellType == "" {
				shellType = bootstrap.ShellFor(cfg.Profile)
			}
		case file == "":
			// manifest 없이도 현재 디렉토리의 .env는 출력한다
			file = ".env"
		}
	}
	if shellType == "" {
		shellType = profile.DetectShell()
	}

	f, err := envfile.Load(file)
	if err != nil && !errors.Is(err, envfile.ErrNotFound) {
		return err
	}
	for _, line := range f.Skipped {
		a.logger().Warn("잘못된 env 항목 무시", "file", file, "line", line)
	}

	if unset {
		fmt.Fprint(cmd.OutOrStdout(), shell.Unsets(f.Entries, shellType))
		return nil
	}
	out, err := shell.Exports(f.Entries, shellType)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
