package runbookexec

import (
	"context"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
	"github.com/alexisbeaulieu97/runbookmd/internal/partials"
	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
	"github.com/alexisbeaulieu97/runbookmd/internal/ports"
	runbookerrors "github.com/alexisbeaulieu97/runbookmd/pkg/errors"
)

// ExecuteFunc runs a single task and returns its result. Run's default
// implementation (Auto, shell-line dispatch) is used when callers don't
// supply their own; tests and alternative front ends may substitute one.
type ExecuteFunc func(ctx context.Context, task *directive.TaskCell, section TaskContext) (Result, error)

// Run holds the state a single executor invocation needs: the plan, the
// shared partials registry (read-only once execution starts), the capture
// map it owns, and the event publisher it reports to.
type Run struct {
	Plan         *plan.Plan
	Registry     *partials.Registry
	Interpolator *Interpolator
	Publisher    ports.EventPublisher
	Logger       ports.Logger
	Gitignore    *GitignoreSink
	WorkDir      string
	BaseEnv      []string
	Execute      ExecuteFunc

	captures *CaptureMap
	sections []SectionFrame
}

// Sections returns the completed section stack in execution order.
func (r *Run) Sections() []SectionFrame {
	return r.sections
}

// Walk serially schedules r.Plan's ready-queue: pop the front id, run it,
// release successors whose indegree reaches zero, and repeat. It stops
// early when a task's disposition is Terminate.
func (r *Run) Walk(ctx context.Context) error {
	if r.captures == nil {
		r.captures = NewCaptureMap()
	}
	if r.Execute == nil {
		r.Execute = r.defaultExecute
	}

	startedAt := time.Now()
	r.publish(ctx, runStartEvent(r.Plan, startedAt))
	r.publish(ctx, planReadyEvent(r.Plan))

	working := make(map[string]int, len(r.Plan.Indegree))
	for id, d := range r.Plan.Indegree {
		working[id] = d
	}

	var queue []string
	for _, id := range r.Plan.IDs {
		if working[id] == 0 {
			queue = append(queue, id)
		}
	}
	sortByPlanRank(r.Plan, queue)
	r.publish(ctx, dagReadyEvent(queue))

	totals := map[string]int{"tasks": 0, "failed": 0, "succeeded": 0}
	terminated := false

	for len(queue) > 0 && !terminated {
		id := queue[0]
		queue = queue[1:]
		r.publish(ctx, taskScheduledEvent(id))

		task, ok := r.Plan.ByID[id]
		if !ok {
			continue
		}

		section := r.sectionContext(task)
		r.publish(ctx, taskStartEvent(id, section, time.Now()))

		result, err := r.runOne(ctx, task, section)
		totals["tasks"]++
		if result.Success {
			totals["succeeded"]++
		} else {
			totals["failed"]++
		}

		r.sections = append(r.sections, SectionFrame{TaskID: id, Result: result})
		r.publish(ctx, taskEndEvent(id, result))

		if err != nil {
			r.publish(ctx, errorEvent("task-run", err.Error(), err, id))
		}

		if result.Disposition == Terminate {
			terminated = true
			break
		}

		var released []string
		for _, successor := range r.Plan.Adjacency[id] {
			working[successor]--
			if working[successor] == 0 {
				released = append(released, successor)
			}
		}
		sortByPlanRank(r.Plan, released)
		if len(released) > 0 {
			r.publish(ctx, dagReleaseEvent(id, released))
		}
		queue = append(queue, released...)
	}

	totals["unresolved"] = len(r.Plan.Unresolved)
	missing := 0
	for range r.Plan.MissingDeps {
		missing++
	}
	totals["missingDeps"] = missing

	r.publish(ctx, runEndEvent(time.Now(), time.Since(startedAt), totals))
	return nil
}

// runOne executes a single task: interpolate if requested, dispatch via
// Execute, then apply any --capture instructions. A panic or error from
// Execute is synthesized into a failed, terminating Result rather than
// propagated, matching the "throws -> terminate" scheduling rule.
func (r *Run) runOne(ctx context.Context, task *directive.TaskCell, section TaskContext) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			cause := fmt.Errorf("task panicked: %v", rec)
			result = failedResult(section, cause)
			err = runbookerrors.NewTaskRunThrewError(task.TaskID(), cause)
		}
	}()

	source := task.Cell.Body
	if task.Cell.Info.IsEnabled("interpolate", "I") {
		interp := r.Interpolator.Interpolate(task.TaskID(), source, Env{Ctx: section, Captured: r.captures.entries})
		switch interp.Kind {
		case Failed:
			wrapped := runbookerrors.NewInterpFailedError(task.TaskID(), interp.Err)
			return failedResult(section, wrapped), wrapped
		case Mutated:
			source = interp.Text
		}
	}

	execTask := task
	if source != task.Cell.Body {
		rendered := *task
		rendered.Cell.Body = source
		rendered.Directive.Source = source
		execTask = &rendered
	}

	result, execErr := r.Execute(ctx, execTask, section)
	if execErr != nil {
		wrapped := runbookerrors.NewTaskRunThrewError(task.TaskID(), execErr)
		result = failedResult(section, wrapped)
		result.Disposition = Terminate
		return result, wrapped
	}

	if task.Cell.Info.HasFlag("capture", "C") {
		instructions := CaptureInstructions(task.Cell.Info.Flags, task.TaskID())
		captured := CapturedExec{TaskID: task.TaskID(), Ctx: section, Result: result, Source: source}
		if applyErr := r.captures.Apply(ctx, r.Logger, instructions, captured, r.Gitignore); applyErr != nil {
			wrapped := runbookerrors.NewTaskRunThrewError(task.TaskID(), applyErr)
			return failedResult(section, wrapped), wrapped
		}
	}

	return result, nil
}

// defaultExecute dispatches a TASK cell's body through Auto; CONTENT cells
// (no executable source) are treated as already-succeeded no-ops.
func (r *Run) defaultExecute(ctx context.Context, task *directive.TaskCell, section TaskContext) (Result, error) {
	started := time.Now()
	if task.Directive.Nature != directive.NatureTask {
		return Result{Ctx: section, Success: true, ExitCode: 0, StartedAt: started, EndedAt: time.Now()}, nil
	}

	auto, err := Auto(ctx, task.Cell.Body, r.BaseEnv, section.WorkDir)
	ended := time.Now()
	if err != nil {
		return Result{Ctx: section, Success: false, ExitCode: 1, StartedAt: started, EndedAt: ended, Error: err}, nil
	}

	if auto.Shebang != nil {
		return Result{
			Ctx: section, Success: auto.Shebang.ExitCode == 0, ExitCode: auto.Shebang.ExitCode,
			StartedAt: started, EndedAt: ended, Stdout: auto.Shebang.Stdout, Stderr: auto.Shebang.Stderr,
		}, nil
	}

	var stdout, stderr string
	success := true
	for _, line := range auto.Lines {
		stdout += line.Stdout
		stderr += line.Stderr
		if line.ExitCode != 0 {
			success = false
		}
	}
	return Result{Ctx: section, Success: success, StartedAt: started, EndedAt: ended, Stdout: stdout, Stderr: stderr}, nil
}

func failedResult(ctx TaskContext, err error) Result {
	now := time.Now()
	return Result{Ctx: ctx, Success: false, ExitCode: 1, StartedAt: now, EndedAt: now, Error: err, Disposition: Terminate}
}

func (r *Run) sectionContext(task *directive.TaskCell) TaskContext {
	return TaskContext{
		TaskID:     task.TaskID(),
		Provenance: task.Cell.Provenance,
		WorkDir:    r.WorkDir,
		Attrs:      task.Cell.Info.Attrs,
		Env:        envFlags(task.Cell.Info),
	}
}

func envFlags(info fenceinfo.FenceInfo) map[string]string {
	values := info.GetFlagValues("env")
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for _, kv := range values {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				out[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return out
}

func (r *Run) publish(ctx context.Context, e event) {
	if r.Publisher == nil {
		return
	}
	_ = r.Publisher.Publish(ctx, e)
}

func sortByPlanRank(p *plan.Plan, ids []string) {
	rank := make(map[string]int, len(p.IDs))
	for i, id := range p.IDs {
		rank[id] = i
	}
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && rank[ids[j-1]] > rank[ids[j]] {
			ids[j-1], ids[j] = ids[j], ids[j-1]
			j--
		}
	}
}
