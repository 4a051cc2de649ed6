package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hbjs97/idobata/internal/cmdexec"
)

// App은 CLI 명령이 공유하는 의존성이다. 테스트에서는 FakeCommander와 mock FormRunner를 주입한다.
type App struct {
	Commander cmdexec.Commander
	Form      FormRunner
	LookupEnv func(string) (string, bool)
	// Setenv가 nil이면 os.Setenv를 사용한다.
	Setenv func(key, value string) error

	CfgPath   string
	StatePath string
	Verbose   bool

	// ErrOut이 nil이면 os.Stderr로 로그를 출력한다.
	ErrOut io.Writer
}

// NewApp은 실제 명령 실행기와 huh 폼을 사용하는 App을 생성한다.
func NewApp() *App {
	return &App{
		Commander: &cmdexec.RealCommander{},
		Form:      &HuhFormRunner{},
		LookupEnv: os.LookupEnv,
	}
}

// NewRootCmd는 idobata CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "idobata",
		Short:         "AI roundtable sandbox를 멱등적으로 구성한다",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	defaultCfg := a.CfgPath
	if defaultCfg == "" {
		defaultCfg = filepath.Join(homeDir(), ".config", "idobata", "bootstrap.toml")
	}
	defaultState := a.StatePath
	if defaultState == "" {
		defaultState = filepath.Join(homeDir(), ".config", "idobata", "state.json")
	}
	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", defaultCfg, "manifest 파일 경로")
	cmd.PersistentFlags().StringVar(&a.StatePath, "state", defaultState, "실행 기록 파일 경로")
	cmd.PersistentFlags().BoolVar(&a.Verbose, "verbose", false, "상세 출력")

	cmd.AddCommand(
		a.newInitCmd(),
		a.newRunCmd(),
		a.newDoctorCmd(),
		a.newStatusCmd(),
		a.newEnvCmd(),
		a.newUninstallCmd(),
		a.newDevcontainerCmd(),
		a.newDocsCmd(),
	)
	return cmd
}

func (a *App) logger() *log.Logger {
	w := a.ErrOut
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if a.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "idobata",
		Level:  level,
	})
}

func (a *App) lookupEnv(key string) (string, bool) {
	if a.LookupEnv == nil {
		return os.LookupEnv(key)
	}
	return a.LookupEnv(key)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "경고: 홈 디렉토리 확인 실패: %v\n", err)
		return "."
	}
	return home
}
