// Package errors defines the runbook engine's typed error taxonomy. Each kind
// carries the contextual fields a caller needs to act on it and wraps the
// underlying cause so callers can still errors.Is/errors.As through to it.
package errors

import (
	"fmt"
)

// FenceIssueError means a directive inspector or schema validator rejected a
// fence. The fence is not scheduled; the run proceeds.
type FenceIssueError struct {
	Provenance string
	StartLine  int
	EndLine    int
	Message    string
	Err        error
}

// NewFenceIssueError constructs a FenceIssueError.
func NewFenceIssueError(provenance string, startLine, endLine int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &FenceIssueError{Provenance: provenance, StartLine: startLine, EndLine: endLine, Message: message, Err: err}
}

func (e *FenceIssueError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("fence issue: %s:%d-%d: %s", e.Provenance, e.StartLine, e.EndLine, e.Message)
}

// Unwrap exposes the underlying error.
func (e *FenceIssueError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FrontmatterParseError means a notebook's frontmatter failed its
// caller-supplied schema. The entire notebook is skipped; other notebooks
// proceed.
type FrontmatterParseError struct {
	Path string
	Err  error
}

// NewFrontmatterParseError constructs a FrontmatterParseError.
func NewFrontmatterParseError(path string, err error) error {
	return &FrontmatterParseError{Path: path, Err: err}
}

func (e *FrontmatterParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("frontmatter parse error: %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *FrontmatterParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AttrsParseError means a fence's trailing `{...}` attrs block was invalid.
// Disposition (ignore/store/throw) is policy-driven by the caller.
type AttrsParseError struct {
	Provenance string
	Raw        string
	Err        error
}

// NewAttrsParseError constructs an AttrsParseError.
func NewAttrsParseError(provenance, raw string, err error) error {
	return &AttrsParseError{Provenance: provenance, Raw: raw, Err: err}
}

func (e *AttrsParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("attrs parse error: %s: %q: %v", e.Provenance, e.Raw, e.Err)
}

// Unwrap exposes the underlying error.
func (e *AttrsParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PartialArgsInvalidError means locals supplied to a partial did not satisfy
// its schema. Callers render this inline in place of the partial's content.
type PartialArgsInvalidError struct {
	Partial string
	Err     error
}

// NewPartialArgsInvalidError constructs a PartialArgsInvalidError.
func NewPartialArgsInvalidError(partial string, err error) error {
	return &PartialArgsInvalidError{Partial: partial, Err: err}
}

func (e *PartialArgsInvalidError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("partial args invalid [%s]: %v", e.Partial, e.Err)
}

// Unwrap exposes the underlying error.
func (e *PartialArgsInvalidError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InjectableRenderFailedError means an injectable wrapper threw or reported
// invalid locals during composition. Downstream interpolation is disabled for
// the resulting text.
type InjectableRenderFailedError struct {
	Injectable string
	Err        error
}

// NewInjectableRenderFailedError constructs an InjectableRenderFailedError.
func NewInjectableRenderFailedError(injectable string, err error) error {
	return &InjectableRenderFailedError{Injectable: injectable, Err: err}
}

func (e *InjectableRenderFailedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("injectable render failed [%s]: %v", e.Injectable, e.Err)
}

// Unwrap exposes the underlying error.
func (e *InjectableRenderFailedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InterpFailedError means template evaluation threw while interpolating a
// task's fence body.
type InterpFailedError struct {
	TaskID string
	Err    error
}

// NewInterpFailedError constructs an InterpFailedError.
func NewInterpFailedError(taskID string, err error) error {
	return &InterpFailedError{TaskID: taskID, Err: err}
}

func (e *InterpFailedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("interpolation failed [%s]: %v", e.TaskID, e.Err)
}

// Unwrap exposes the underlying error.
func (e *InterpFailedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TaskRunThrewError means a task's execute function threw. The run
// synthesizes a failing result and terminates.
type TaskRunThrewError struct {
	TaskID string
	Err    error
}

// NewTaskRunThrewError constructs a TaskRunThrewError.
func NewTaskRunThrewError(taskID string, err error) error {
	return &TaskRunThrewError{TaskID: taskID, Err: err}
}

func (e *TaskRunThrewError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("task run threw [%s]: %v", e.TaskID, e.Err)
}

// Unwrap exposes the underlying error.
func (e *TaskRunThrewError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RegexInvalidError means an `--injected-dep`/`--implicit-dep` pattern did
// not compile. That pattern is skipped; other patterns and the task proceed.
type RegexInvalidError struct {
	Pattern string
	Err     error
}

// NewRegexInvalidError constructs a RegexInvalidError.
func NewRegexInvalidError(pattern string, err error) error {
	return &RegexInvalidError{Pattern: pattern, Err: err}
}

func (e *RegexInvalidError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("regex invalid [%s]: %v", e.Pattern, e.Err)
}

// Unwrap exposes the underlying error.
func (e *RegexInvalidError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnresolvedError reports a cycle or unmet dependency chain surviving Kahn's
// algorithm. It is carried structurally in a Plan's Unresolved set; this type
// exists for callers that want to surface it as an error value (e.g. a
// strict CLI mode).
type UnresolvedError struct {
	TaskIDs []string
}

// NewUnresolvedError constructs an UnresolvedError.
func NewUnresolvedError(taskIDs []string) error {
	return &UnresolvedError{TaskIDs: taskIDs}
}

func (e *UnresolvedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unresolved tasks (cycle or unmet chain): %v", e.TaskIDs)
}

// MissingDepError reports a dependency name absent from the task set. Edges
// referencing it are omitted; dependents may still run if no other blockers
// exist.
type MissingDepError struct {
	TaskID string
	Dep    string
}

// NewMissingDepError constructs a MissingDepError.
func NewMissingDepError(taskID, dep string) error {
	return &MissingDepError{TaskID: taskID, Dep: dep}
}

func (e *MissingDepError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("missing dep: task %s depends on unknown %s", e.TaskID, e.Dep)
}
