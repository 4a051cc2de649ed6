package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/profile"
)

func (a *App) newUninstallCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "idobata가 추가한 셸 profile 블록을 제거한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUninstall(cmd, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "확인 없이 제거")
	return cmd
}

// runUninstall은 profile 블록만 제거한다. 설치된 도구와 MCP 등록은 그대로 둔다.
func (a *App) runUninstall(cmd *cobra.Command, yes bool) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !yes {
		ok, err := a.Form.RunConfirm(fmt.Sprintf("%s에서 idobata 블록을 제거할까요?", cfg.Profile))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "취소되었습니다.")
			return nil
		}
	}

	markers := []string{config.EnvHookMarker}
	for _, b := range cfg.ProfileBlocks {
		markers = append(markers, b.Marker)
	}

	removed := 0
	for _, m := range markers {
		ok, err := profile.RemoveBlock(cfg.Profile, m)
		if err != nil {
			return err
		}
		if ok {
			removed++
			fmt.Fprintf(out, "  [%s] %s 제거\n", okStyle.Render("-"), m)
		}
	}
	if removed == 0 {
		fmt.Fprintln(out, "제거할 블록이 없습니다.")
	}
	return nil
}
