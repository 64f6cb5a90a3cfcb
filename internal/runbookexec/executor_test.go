package runbookexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
	"github.com/alexisbeaulieu97/runbookmd/internal/partials"
	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
)

func taskCell(id string, body string, deps ...string) *directive.TaskCell {
	return &directive.TaskCell{
		Cell: directive.Cell{Provenance: "Runbook.md", Body: body},
		Directive: directive.Directive{
			Nature:   directive.NatureTask,
			Identity: id,
			Source:   body,
			Deps:     deps,
		},
	}
}

func buildPlan(tasks []*directive.TaskCell) *plan.Plan {
	resolver := plan.NewImplicitDepsResolver(tasks)
	return plan.Build(tasks, resolver.Resolve)
}

func TestWalkRunsTasksInOrderAndRecordsSections(t *testing.T) {
	tasks := []*directive.TaskCell{
		taskCell("a", "echo a"),
		taskCell("b", "echo b", "a"),
	}
	p := buildPlan(tasks)

	run := &Run{
		Plan:         p,
		Registry:     partials.NewRegistry(),
		Interpolator: NewInterpolator(partials.NewRegistry()),
	}
	require.NoError(t, run.Walk(context.Background()))

	sections := run.Sections()
	require.Len(t, sections, 2)
	require.Equal(t, "a", sections[0].TaskID)
	require.Equal(t, "b", sections[1].TaskID)
	require.True(t, sections[0].Result.Success)
	require.Equal(t, "a\n", sections[0].Result.Stdout)
}

func TestWalkTerminatesOnTaskTermination(t *testing.T) {
	tasks := []*directive.TaskCell{
		taskCell("a", "echo a"),
		taskCell("b", "echo b", "a"),
	}
	p := buildPlan(tasks)

	run := &Run{
		Plan:         p,
		Registry:     partials.NewRegistry(),
		Interpolator: NewInterpolator(partials.NewRegistry()),
		Execute: func(ctx context.Context, task *directive.TaskCell, section TaskContext) (Result, error) {
			return Result{Ctx: section, Success: true, Disposition: Terminate}, nil
		},
	}
	require.NoError(t, run.Walk(context.Background()))
	require.Len(t, run.Sections(), 1)
}

func TestWalkSynthesizesFailureOnExecuteError(t *testing.T) {
	tasks := []*directive.TaskCell{taskCell("a", "echo a")}
	p := buildPlan(tasks)

	run := &Run{
		Plan:         p,
		Registry:     partials.NewRegistry(),
		Interpolator: NewInterpolator(partials.NewRegistry()),
		Execute: func(ctx context.Context, task *directive.TaskCell, section TaskContext) (Result, error) {
			return Result{}, context.DeadlineExceeded
		},
	}
	require.NoError(t, run.Walk(context.Background()))

	sections := run.Sections()
	require.Len(t, sections, 1)
	require.False(t, sections[0].Result.Success)
	require.Equal(t, Terminate, sections[0].Result.Disposition)
}

func TestWalkCapturesNamedOutput(t *testing.T) {
	fetch := taskCell("fetch", "echo fetched")
	fetch.Cell.Info.Flags = map[string][]fenceinfo.FlagValue{
		"capture": {{Kind: fenceinfo.FlagKindBool, Bool: true}},
	}

	tasks := []*directive.TaskCell{fetch}
	p := buildPlan(tasks)

	run := &Run{
		Plan:         p,
		Registry:     partials.NewRegistry(),
		Interpolator: NewInterpolator(partials.NewRegistry()),
	}
	require.NoError(t, run.Walk(context.Background()))
	require.Len(t, run.Sections(), 1)

	captured, ok := run.captures.Get("fetch")
	require.True(t, ok)
	require.Equal(t, "fetched\n", captured.Text())
}
