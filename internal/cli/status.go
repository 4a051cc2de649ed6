package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/bootstrap"
	"github.com/hbjs97/idobata/internal/state"
)

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "마지막 bootstrap 실행 결과를 표시한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}
}

func (a *App) runStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	st, err := state.Load(a.StatePath)
	if err != nil {
		return err
	}
	if len(st.Units) == 0 {
		fmt.Fprintln(out, "실행 기록이 없습니다. 'idobata run'을 실행하세요.")
		return nil
	}

	fmt.Fprintf(out, "마지막 실행: %s\n", st.LastRun)
	for _, name := range st.Names() {
		e := st.Units[name]
		line := fmt.Sprintf("  [%s] %-9s %s", outcomeIcon(bootstrap.Outcome(e.Outcome)), e.Kind, name)
		if e.Message != "" {
			line += " " + mutedStyle.Render(e.Message)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
