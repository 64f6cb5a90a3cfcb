// Package runbookexec serially walks a plan, interpolating and executing
// each task in turn and recording its outcome for later tasks and for the
// run's event bus.
package runbookexec

import "time"

// Disposition tells the executor whether to keep scheduling after a task
// completes.
type Disposition int

const (
	// Continue releases the task's successors and advances the ready-queue.
	Continue Disposition = iota
	// Terminate stops scheduling immediately; successors are not released.
	Terminate
)

// TaskContext is the per-task environment passed to a task's execute
// function: identity, working directory, and the fence's attrs.
type TaskContext struct {
	TaskID     string
	Provenance string
	WorkDir    string
	Attrs      map[string]interface{}
	Env        map[string]string
}

// Result is a single task's outcome.
type Result struct {
	Ctx         TaskContext
	Success     bool
	ExitCode    int
	StartedAt   time.Time
	EndedAt     time.Time
	Stdout      string
	Stderr      string
	Error       error
	Disposition Disposition
}

// SectionFrame records one completed task in execution order, for
// --verbose rendering and the run summary.
type SectionFrame struct {
	TaskID string
	Result Result
}
