package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/doctor"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "sandbox 환경을 진단한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *App) runDoctor(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		fmt.Fprintf(out, "  [%s] manifest: %v\n", statusIcon(doctor.StatusFail), err)
		fmt.Fprintln(out, "      Fix: idobata init 실행 또는 manifest 확인")
		// manifest 없이 기본 바이너리만 확인
		printDiagResults(out, doctor.CheckBinaries(ctx, a.Commander))
		return nil
	}

	devcontainerPath := filepath.Join(cfg.Workspace, ".devcontainer", "devcontainer.json")
	fmt.Fprintln(out, titleStyle.Render("idobata doctor"))
	results := doctor.RunAll(ctx, a.Commander, cfg, a.lookupEnv, devcontainerPath)
	printDiagResults(out, results)
	if doctor.Failed(results) {
		fmt.Fprintf(out, "\n%s 'idobata run'으로 누락된 단위를 적용하세요.\n", failStyle.Render("FAIL 항목이 있습니다."))
	}
	return nil
}

// printDiagResults는 진단 결과 목록을 출력한다.
func printDiagResults(out io.Writer, results []doctor.DiagResult) {
	for _, r := range results {
		fmt.Fprintf(out, "  [%s] %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(out, "      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return okStyle.Render("OK")
	case doctor.StatusWarn:
		return warnStyle.Render("!!")
	case doctor.StatusFail:
		return failStyle.Render("FAIL")
	default:
		return "??"
	}
}
