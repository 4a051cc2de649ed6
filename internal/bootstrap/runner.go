package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hbjs97/idobata/internal/cmdexec"
	"github.com/hbjs97/idobata/internal/config"
	"github.com/hbjs97/idobata/internal/envfile"
	"github.com/hbjs97/idobata/internal/mcp"
	"github.com/hbjs97/idobata/internal/profile"
	"github.com/hbjs97/idobata/internal/redact"
	"github.com/hbjs97/idobata/internal/scaffold"
	"github.com/hbjs97/idobata/internal/shell"
)

// ErrFatal은 required preflight 실패로 bootstrap이 중단될 때 반환된다.
var ErrFatal = errors.New("bootstrap 중단")

// Runner는 bootstrap 시퀀스를 순서대로 실행한다.
// 각 단위는 존재 여부를 먼저 확인하고 없을 때만 적용한다.
type Runner struct {
	Commander cmdexec.Commander
	Config    *config.Config
	Logger    *log.Logger

	// LookupEnv와 Setenv가 nil이면 프로세스 환경을 사용한다.
	LookupEnv func(string) (string, bool)
	Setenv    func(key, value string) error

	// DryRun이면 확인만 하고 적용하지 않는다.
	DryRun bool
	// Only가 비어있지 않으면 해당 이름의 단위만 실행한다. env 활성화는 항상 실행한다.
	Only []string

	// fileEnv는 env 파일 항목이다. 외부 명령 환경과 로그 마스킹에 쓴다.
	fileEnv map[string]string
}

// Run은 env 활성화 → preflight → tools → profile → templates → MCP 순서로 실행한다.
// required preflight 실패만 ErrFatal로 중단하고, 나머지 실패는 경고 후 계속한다.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.init()
	report := &Report{}

	r.activateEnv(report)

	for _, p := range r.Config.Preflight {
		if !r.selected(p.Name) {
			continue
		}
		if err := r.preflight(ctx, report, p); err != nil {
			return report, err
		}
	}
	for _, t := range r.Config.Tools {
		if r.selected(t.Name) {
			r.tool(ctx, report, t)
		}
	}
	if r.Config.IsEnvHook() && r.selected(config.EnvHookMarker) {
		r.envHook(report)
	}
	for _, b := range r.Config.ProfileBlocks {
		if r.selected(b.Marker) {
			r.profileBlock(report, b.Marker, b.Content)
		}
	}
	for _, t := range r.Config.Templates {
		if r.selected(t.Path) {
			r.template(report, t)
		}
	}
	r.registerMCP(ctx, report)

	r.Logger.Info("bootstrap 완료",
		"applied", report.Count(OutcomeApplied),
		"present", report.Count(OutcomePresent),
		"warned", report.Count(OutcomeWarned),
		"planned", report.Count(OutcomePlanned))
	return report, nil
}

func (r *Runner) init() {
	if r.Logger == nil {
		r.Logger = log.New(io.Discard)
	}
	if r.LookupEnv == nil {
		r.LookupEnv = os.LookupEnv
	}
	if r.Setenv == nil {
		r.Setenv = os.Setenv
	}
	r.fileEnv = make(map[string]string)
}

func (r *Runner) selected(name string) bool {
	if len(r.Only) == 0 {
		return true
	}
	for _, n := range r.Only {
		if n == name {
			return true
		}
	}
	return false
}

func (r *Runner) activateEnv(report *Report) {
	f, err := envfile.Load(r.Config.EnvFile)
	if errors.Is(err, envfile.ErrNotFound) {
		r.Logger.Warn("env 파일 없음 — 자격 증명 없이 계속합니다", "path", r.Config.EnvFile)
		report.add(Result{Unit: config.EnvUnit, Kind: KindEnv, Outcome: OutcomeWarned, Message: "env 파일 없음: " + r.Config.EnvFile})
		return
	}
	if err != nil {
		r.Logger.Warn("env 파일 읽기 실패", "path", r.Config.EnvFile, "err", err)
		report.add(Result{Unit: config.EnvUnit, Kind: KindEnv, Outcome: OutcomeWarned, Message: err.Error()})
		return
	}

	for _, line := range f.Skipped {
		r.Logger.Warn("형식이 잘못된 env 줄 무시", "path", r.Config.EnvFile, "line", line)
	}
	for k, v := range f.Map() {
		r.fileEnv[k] = v
	}
	if err := f.Apply(r.Setenv); err != nil {
		r.Logger.Warn("env export 실패", "err", err)
		report.add(Result{Unit: config.EnvUnit, Kind: KindEnv, Outcome: OutcomeWarned, Message: err.Error()})
		return
	}

	r.Logger.Debug("env 파일 export", "path", r.Config.EnvFile, "count", len(f.Entries))
	msg := fmt.Sprintf("%d개 export", len(f.Entries))
	if len(f.Skipped) > 0 {
		msg += fmt.Sprintf(", %d줄 무시", len(f.Skipped))
	}
	report.add(Result{Unit: config.EnvUnit, Kind: KindEnv, Outcome: OutcomeApplied, Message: msg})
}

func (r *Runner) preflight(ctx context.Context, report *Report, p config.Preflight) error {
	if r.DryRun {
		report.add(Result{Unit: p.Name, Kind: KindPreflight, Outcome: OutcomePlanned, Message: strings.Join(p.Command, " ")})
		return nil
	}

	out, err := r.Commander.RunWithEnv(ctx, r.fileEnv, p.Command[0], p.Command[1:]...)
	if err == nil {
		r.Logger.Debug("preflight 통과", "unit", p.Name)
		report.add(Result{Unit: p.Name, Kind: KindPreflight, Outcome: OutcomeApplied})
		return nil
	}

	detail := r.mask(strings.TrimSpace(string(out)))
	if p.Required {
		r.Logger.Error("필수 preflight 실패", "unit", p.Name, "err", err, "output", detail)
		report.add(Result{Unit: p.Name, Kind: KindPreflight, Outcome: OutcomeFailed, Message: err.Error()})
		return fmt.Errorf("bootstrap.Run: %s: %w: %v", p.Name, ErrFatal, err)
	}
	r.Logger.Warn("preflight 실패 — 계속합니다", "unit", p.Name, "err", err, "output", detail)
	report.add(Result{Unit: p.Name, Kind: KindPreflight, Outcome: OutcomeWarned, Message: err.Error()})
	return nil
}

func (r *Runner) tool(ctx context.Context, report *Report, t config.Tool) {
	for _, key := range t.EnvRequired {
		if v, ok := r.LookupEnv(key); !ok || v == "" {
			r.Logger.Warn("자격 증명 환경변수 없음 — 설치는 계속합니다", "unit", t.Name, "env", key)
		}
	}

	if path, err := r.Commander.LookPath(t.Binary); err == nil {
		r.Logger.Debug("이미 설치됨", "unit", t.Name, "path", path)
		report.add(Result{Unit: t.Name, Kind: KindTool, Outcome: OutcomePresent, Message: path})
		return
	}
	if r.DryRun {
		report.add(Result{Unit: t.Name, Kind: KindTool, Outcome: OutcomePlanned, Message: strings.Join(t.Install, " ")})
		return
	}

	r.Logger.Info("설치 중", "unit", t.Name, "cmd", strings.Join(t.Install, " "))
	out, err := r.Commander.RunWithEnv(ctx, r.fileEnv, t.Install[0], t.Install[1:]...)
	if err != nil {
		r.Logger.Warn("설치 실패 — 계속합니다", "unit", t.Name, "err", err, "output", r.mask(strings.TrimSpace(string(out))))
		report.add(Result{Unit: t.Name, Kind: KindTool, Outcome: OutcomeWarned, Message: "설치 실패: " + err.Error()})
		return
	}
	if _, err := r.Commander.LookPath(t.Binary); err != nil {
		r.Logger.Warn("설치 후에도 PATH에서 찾을 수 없음", "unit", t.Name, "binary", t.Binary)
		report.add(Result{Unit: t.Name, Kind: KindTool, Outcome: OutcomeWarned, Message: t.Binary + "가 PATH에 없음"})
		return
	}
	report.add(Result{Unit: t.Name, Kind: KindTool, Outcome: OutcomeApplied})
}

func (r *Runner) envHook(report *Report) {
	snippet, err := r.hookSnippet()
	if err != nil {
		r.Logger.Warn("env hook 생성 실패", "env_file", r.Config.EnvFile, "err", err)
		report.add(Result{Unit: config.EnvHookMarker, Kind: KindProfile, Outcome: OutcomeWarned, Message: err.Error()})
		return
	}
	if snippet == "" {
		r.Logger.Warn("env hook을 지원하지 않는 셸", "profile", r.Config.Profile)
		report.add(Result{Unit: config.EnvHookMarker, Kind: KindProfile, Outcome: OutcomeWarned, Message: "지원하지 않는 셸"})
		return
	}
	r.profileBlock(report, config.EnvHookMarker, snippet)
}

// hookSnippet은 env 파일의 절대 경로를 넣은 hook 블록 내용을 만든다.
func (r *Runner) hookSnippet() (string, error) {
	envFile, err := filepath.Abs(r.Config.EnvFile)
	if err != nil {
		return "", fmt.Errorf("bootstrap.envHook: %w", err)
	}
	return shell.HookSnippet(ShellFor(r.Config.Profile), envFile)
}

func (r *Runner) profileBlock(report *Report, marker, content string) {
	present, err := profile.HasBlock(r.Config.Profile, marker)
	if err != nil {
		r.Logger.Warn("프로필 확인 실패", "unit", marker, "err", err)
		report.add(Result{Unit: marker, Kind: KindProfile, Outcome: OutcomeWarned, Message: err.Error()})
		return
	}
	if present {
		report.add(Result{Unit: marker, Kind: KindProfile, Outcome: OutcomePresent, Message: r.Config.Profile})
		return
	}
	if r.DryRun {
		report.add(Result{Unit: marker, Kind: KindProfile, Outcome: OutcomePlanned, Message: r.Config.Profile})
		return
	}
	if _, err := profile.EnsureBlock(r.Config.Profile, marker, content); err != nil {
		r.Logger.Warn("프로필 블록 추가 실패", "unit", marker, "err", err)
		report.add(Result{Unit: marker, Kind: KindProfile, Outcome: OutcomeWarned, Message: err.Error()})
		return
	}
	r.Logger.Info("프로필 블록 추가", "unit", marker, "profile", r.Config.Profile)
	report.add(Result{Unit: marker, Kind: KindProfile, Outcome: OutcomeApplied, Message: r.Config.Profile})
}

func (r *Runner) template(report *Report, t config.Template) {
	path := r.Config.WorkspacePath(t.Path)
	if _, err := os.Stat(path); err == nil {
		report.add(Result{Unit: t.Path, Kind: KindTemplate, Outcome: OutcomePresent, Message: path})
		return
	}
	if r.DryRun {
		report.add(Result{Unit: t.Path, Kind: KindTemplate, Outcome: OutcomePlanned, Message: path})
		return
	}

	content, err := scaffold.Render(t.Kind, filepath.Base(r.Config.Workspace))
	if err == nil {
		_, err = scaffold.EnsureFile(path, content)
	}
	if err != nil {
		r.Logger.Warn("템플릿 생성 실패", "unit", t.Path, "err", err)
		report.add(Result{Unit: t.Path, Kind: KindTemplate, Outcome: OutcomeWarned, Message: err.Error()})
		return
	}
	r.Logger.Info("템플릿 생성", "path", path)
	report.add(Result{Unit: t.Path, Kind: KindTemplate, Outcome: OutcomeApplied, Message: path})
}

func (r *Runner) registerMCP(ctx context.Context, report *Report) {
	reg := mcp.NewRegistrar(r.Commander, r.Config.MCPCLI)
	available := reg.Available()

	for _, server := range r.Config.MCP {
		if !r.selected(server.Name) {
			continue
		}
		if !available {
			r.Logger.Warn("MCP CLI 없음 — 등록을 건너뜁니다", "unit", server.Name, "cli", reg.CLI, "manual", reg.ManualCommand(server))
			report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomeWarned, Message: reg.CLI + " 없음"})
			continue
		}
		if r.DryRun {
			switch missing := mcp.MissingEnv(server, r.LookupEnv); {
			case reg.Registered(ctx, server.Name):
				report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomePresent})
			case len(missing) > 0:
				report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomeWarned, Message: "환경변수 없음: " + strings.Join(missing, ", ")})
			default:
				report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomePlanned})
			}
			continue
		}

		outcome, err := reg.Ensure(ctx, server, r.LookupEnv)
		switch outcome {
		case mcp.OutcomePresent:
			report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomePresent})
		case mcp.OutcomeAdded:
			r.Logger.Info("MCP 서버 등록", "unit", server.Name, "scope", server.Scope)
			report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomeApplied})
		case mcp.OutcomeSkipped:
			r.Logger.Warn("자격 증명 없음 — MCP 등록을 건너뜁니다", "unit", server.Name, "err", err)
			report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomeWarned, Message: err.Error()})
		default:
			var manual *mcp.ManualStepError
			if errors.As(err, &manual) {
				r.Logger.Warn("MCP 등록 실패 — 직접 실행하세요", "unit", server.Name, "manual", manual.Command, "output", manual.Output)
			} else {
				r.Logger.Warn("MCP 등록 실패", "unit", server.Name, "err", err)
			}
			report.add(Result{Unit: server.Name, Kind: KindMCP, Outcome: OutcomeWarned, Message: r.mask(err.Error())})
		}
	}
}

func (r *Runner) mask(s string) string {
	return redact.MaskValues(s, r.fileEnv)
}

// ShellFor는 프로필 파일 경로로 셸 종류를 판정한다.
func ShellFor(profilePath string) string {
	base := filepath.Base(profilePath)
	switch {
	case strings.HasSuffix(base, ".fish"):
		return "fish"
	case base == ".zshrc" || base == ".zprofile":
		return "zsh"
	case base == ".bashrc" || base == ".bash_profile":
		return "bash"
	case base == ".profile":
		return "sh"
	}
	if sh := profile.DetectShell(); shell.Supported(sh) {
		return sh
	}
	return "bash"
}
