package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/bootstrap"
	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/state"
)

func (a *App) newRunCmd() *cobra.Command {
	var dryRun bool
	var selectUnits bool
	var only []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "bootstrap 시퀀스를 실행한다 (재실행해도 안전)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBootstrap(cmd.Context(), cmd.OutOrStdout(), dryRun, selectUnits, only)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "확인만 하고 적용하지 않음")
	cmd.Flags().BoolVar(&selectUnits, "select", false, "실행할 단위를 대화형으로 선택")
	cmd.Flags().StringSliceVar(&only, "only", nil, "지정한 단위만 실행")
	return cmd
}

func (a *App) runBootstrap(ctx context.Context, out io.Writer, dryRun, selectUnits bool, only []string) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}

	if selectUnits {
		only, err = a.Form.RunUnitSelect(cfg.UnitNames())
		if err != nil {
			return err
		}
		if len(only) == 0 {
			fmt.Fprintln(out, "선택된 단위가 없습니다.")
			return nil
		}
	}
	if err := checkUnits(cfg, only); err != nil {
		return err
	}

	runner := &bootstrap.Runner{
		Commander: a.Commander,
		Config:    cfg,
		Logger:    a.logger(),
		LookupEnv: a.lookupEnv,
		Setenv:    a.Setenv,
		DryRun:    dryRun,
		Only:      only,
	}
	report, runErr := runner.Run(ctx)
	printReport(out, report)
	switch {
	case runErr != nil:
		printNotRun(out, cfg, report, only)
	case !dryRun && !report.Changed():
		fmt.Fprintln(out, "변경 사항 없음: 모든 단위가 이미 적용되어 있습니다.")
	}

	if !dryRun {
		st, err := state.Load(a.StatePath)
		if err == nil {
			report.Record(st, time.Now())
			if err := st.Save(a.StatePath); err != nil {
				a.logger().Warn("실행 기록 저장 실패", "path", a.StatePath, "err", err)
			}
		}
	}
	return runErr
}

func checkUnits(cfg *config.Config, only []string) error {
	known := make(map[string]bool)
	for _, n := range cfg.UnitNames() {
		known[n] = true
	}
	for _, n := range only {
		if !known[n] {
			return fmt.Errorf("cli.run: 알 수 없는 단위: %s", n)
		}
	}
	return nil
}

func printReport(out io.Writer, report *bootstrap.Report) {
	if report == nil {
		return
	}
	for _, r := range report.Results {
		line := fmt.Sprintf("  [%s] %-9s %s", outcomeIcon(r.Outcome), r.Kind, r.Unit)
		if r.Message != "" {
			line += " " + mutedStyle.Render(r.Message)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "\n적용 %d, 유지 %d, 경고 %d",
		report.Count(bootstrap.OutcomeApplied),
		report.Count(bootstrap.OutcomePresent),
		report.Count(bootstrap.OutcomeWarned))
	if n := report.Count(bootstrap.OutcomePlanned); n > 0 {
		fmt.Fprintf(out, ", 예정 %d", n)
	}
	fmt.Fprintln(out)
}

// printNotRun은 중단으로 실행되지 않은 단위를 출력한다.
func printNotRun(out io.Writer, cfg *config.Config, report *bootstrap.Report, only []string) {
	selected := make(map[string]bool, len(only))
	for _, n := range only {
		selected[n] = true
	}
	for _, name := range cfg.UnitNames() {
		if len(only) > 0 && !selected[name] {
			continue
		}
		if _, ok := report.Find(name); !ok {
			fmt.Fprintf(out, "  [%s] %s %s\n", mutedStyle.Render("-"), name, mutedStyle.Render("실행 안 됨"))
		}
	}
}

func outcomeIcon(o bootstrap.Outcome) string {
	switch o {
	case bootstrap.OutcomeApplied:
		return okStyle.Render("+")
	case bootstrap.OutcomePresent:
		return okStyle.Render("=")
	case bootstrap.OutcomePlanned:
		return mutedStyle.Render("~")
	case bootstrap.OutcomeWarned:
		return warnStyle.Render("!")
	case bootstrap.OutcomeFailed:
		return failStyle.Render("x")
	default:
		return "?"
	}
}
