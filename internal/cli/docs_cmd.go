package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/docs"
)

func (a *App) newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "roundtable 명령 문서를 조회하거나 설치한다",
	}
	cmd.AddCommand(a.newDocsListCmd(), a.newDocsShowCmd(), a.newDocsInstallCmd())
	return cmd
}

func (a *App) newDocsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "번들된 명령 문서 목록",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range docs.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "/%s\n", name)
			}
			return nil
		},
	}
}

func (a *App) newDocsShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "명령 문서를 렌더링하여 출력한다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := docs.Get(args[0])
			if err != nil {
				return err
			}
			if !raw {
				rendered, err := glamour.Render(body, "dark")
				if err == nil {
					body = rendered
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Markdown 원문 출력")
	return cmd
}

func (a *App) newDocsInstallCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "명령 문서를 slash-command 디렉토리에 설치한다 (이미 있으면 유지)",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := docs.Install(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintf(out, "모든 문서가 이미 설치되어 있습니다: %s\n", dir)
				return nil
			}
			for _, p := range created {
				fmt.Fprintf(out, "  [%s] %s\n", okStyle.Render("+"), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", filepath.Join(".claude", "commands"), "설치 디렉토리")
	return cmd
}
