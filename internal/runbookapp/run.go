package runbookapp

import (
	"context"
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
	"github.com/alexisbeaulieu97/runbookmd/internal/ports"
	"github.com/alexisbeaulieu97/runbookmd/internal/runbookexec"
	"github.com/alexisbeaulieu97/runbookmd/internal/settings"
	"github.com/joho/godotenv"
)

// RunUseCase drives a prepared plan (or a subplan of it) through the
// executor and reports its completed section stack.
type RunUseCase struct {
	logger ports.Logger
	events ports.EventPublisher
	s      settings.RunbookSettings
}

// NewRunUseCase constructs a RunUseCase.
func NewRunUseCase(logger ports.Logger, events ports.EventPublisher, s settings.RunbookSettings) *RunUseCase {
	return &RunUseCase{logger: logger, events: events, s: s}
}

// RunPlan walks p to completion (or to its first terminating task), wiring
// up the interpolator, gitignore sink, and base environment from settings.
func (u *RunUseCase) RunPlan(ctx context.Context, p *plan.Plan, interpolator *runbookexec.Interpolator) ([]runbookexec.SectionFrame, error) {
	var gitignore *runbookexec.GitignoreSink
	if u.s.GitignoreLabel != "" {
		gitignore = &runbookexec.GitignoreSink{Path: ".gitignore", Label: u.s.GitignoreLabel}
	}

	baseEnv, err := baseEnvironment(u.s.EnvFile)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	run := &runbookexec.Run{
		Plan:         p,
		Interpolator: interpolator,
		Publisher:    u.events,
		Logger:       u.logger,
		Gitignore:    gitignore,
		WorkDir:      workDir,
		BaseEnv:      baseEnv,
	}

	if err := run.Walk(ctx); err != nil {
		return run.Sections(), err
	}
	return run.Sections(), nil
}

// baseEnvironment merges the OS environment with an optional dotenv file,
// dotenv values taking precedence, per SPEC_FULL §4.5's environment
// sourcing addition.
func baseEnvironment(envFile string) ([]string, error) {
	env := os.Environ()
	if envFile == "" {
		return env, nil
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}
	merged := make(map[string]string, len(env)+len(fileVars))
	for _, kv := range env {
		if idx := indexByte(kv, '='); idx >= 0 {
			merged[kv[:idx]] = kv[idx+1:]
		}
	}
	for k, v := range fileVars {
		merged[k] = v
	}
	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	return out, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
