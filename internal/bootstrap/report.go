package bootstrap

import (
	"time"

	"github.com/hbjs97/idobata/internal/state"
)

// Kind는 bootstrap 단위의 종류다.
type Kind string

const (
	KindEnv       Kind = "env"
	KindPreflight Kind = "preflight"
	KindTool      Kind = "tool"
	KindProfile   Kind = "profile"
	KindTemplate  Kind = "template"
	KindMCP       Kind = "mcp"
)

// Outcome은 단위 하나의 처리 결과다.
type Outcome string

const (
	// OutcomeApplied는 이번 실행에서 설치/추가/생성한 경우다.
	OutcomeApplied Outcome = "applied"
	// OutcomePresent는 이미 적용되어 있어 건너뛴 경우다.
	OutcomePresent Outcome = "present"
	// OutcomePlanned는 dry-run에서 적용 대상으로 판정된 경우다.
	OutcomePlanned Outcome = "planned"
	// OutcomeWarned는 실패했지만 나머지 단계를 계속 진행한 경우다.
	OutcomeWarned Outcome = "warned"
	// OutcomeFailed는 전체 실행을 중단시킨 실패다.
	OutcomeFailed Outcome = "failed"
)

// Result는 단위 하나의 결과다.
type Result struct {
	Unit    string
	Kind    Kind
	Outcome Outcome
	Message string
}

// Report는 bootstrap 한 번의 결과 모음이다.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Count는 outcome별 단위 수를 반환한다.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Find는 이름으로 결과를 찾는다.
func (r *Report) Find(unit string) (Result, bool) {
	for _, res := range r.Results {
		if res.Unit == unit {
			return res, true
		}
	}
	return Result{}, false
}

// Changed는 도구, 프로필, 템플릿, MCP 중 이번 실행에서 적용된 단위가 있는지 반환한다.
// env 활성화와 preflight는 매 실행마다 applied이므로 제외한다.
func (r *Report) Changed() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeApplied && res.Kind != KindEnv && res.Kind != KindPreflight {
			return true
		}
	}
	return false
}

// Record는 결과를 state에 기록한다. dry-run 결과는 기록하지 않는다.
func (r *Report) Record(s *state.State, at time.Time) {
	for _, res := range r.Results {
		if res.Outcome == OutcomePlanned {
			continue
		}
		s.Record(res.Unit, state.Entry{
			Kind:    string(res.Kind),
			Outcome: string(res.Outcome),
			Message: res.Message,
		}, at)
	}
}
