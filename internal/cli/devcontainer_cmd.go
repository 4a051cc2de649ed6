package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/devcontainer"
	"github.com/hbjs97/idobata/internal/scaffold"
)

func (a *App) newDevcontainerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devcontainer",
		Short: "devcontainer 정의를 생성하거나 검증한다",
	}
	cmd.AddCommand(a.newDevcontainerInitCmd(), a.newDevcontainerValidateCmd())
	return cmd
}

func (a *App) newDevcontainerInitCmd() *cobra.Command {
	var dir string
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "devcontainer.json과 컨테이너용 manifest를 생성한다 (이미 있으면 유지)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDevcontainerInit(cmd, dir, name)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".devcontainer", "생성 디렉토리")
	cmd.Flags().StringVar(&name, "name", "", "컨테이너 이름 (기본: 현재 디렉토리 이름)")
	return cmd
}

func (a *App) runDevcontainerInit(cmd *cobra.Command, dir, name string) error {
	if name == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cli.devcontainer: %w", err)
		}
		name = filepath.Base(wd)
	}

	data, err := devcontainer.Marshal(devcontainer.Default(name))
	if err != nil {
		return err
	}

	files := []struct {
		path string
		body []byte
	}{
		{filepath.Join(dir, "devcontainer.json"), data},
		{filepath.Join(dir, "bootstrap.toml"), []byte(config.DefaultManifest)},
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		created, err := scaffold.EnsureFile(f.path, f.body)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "  [%s] %s 생성\n", okStyle.Render("+"), f.path)
		} else {
			fmt.Fprintf(out, "  [%s] %s 유지\n", okStyle.Render("="), f.path)
		}
	}
	return nil
}

func (a *App) newDevcontainerValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "devcontainer.json을 검증한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(".devcontainer", "devcontainer.json")
			if len(args) == 1 {
				path = args[0]
			}
			return a.runDevcontainerValidate(cmd, path)
		},
	}
}

func (a *App) runDevcontainerValidate(cmd *cobra.Command, path string) error {
	cfg, err := devcontainer.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", okStyle.Render("OK"), path)
	return nil
}
