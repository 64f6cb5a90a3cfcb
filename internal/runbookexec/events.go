package runbookexec

import (
	"time"

	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
	"github.com/alexisbeaulieu97/runbookmd/internal/ports"
)

// event is the concrete ports.DomainEvent implementation for every lifecycle
// event the executor emits; eventType and payload are fixed at construction.
type event struct {
	kind    string
	payload interface{}
}

func (e event) EventType() string    { return e.kind }
func (e event) Payload() interface{} { return e.payload }

func runStartEvent(p *plan.Plan, startedAt time.Time) event {
	return event{kind: ports.EventRunStart, payload: map[string]interface{}{
		"plan": p, "startedAt": startedAt,
	}}
}

func planReadyEvent(p *plan.Plan) event {
	return event{kind: ports.EventPlanReady, payload: map[string]interface{}{
		"ids": p.IDs, "unresolved": p.Unresolved, "missingDeps": p.MissingDeps,
	}}
}

func dagReadyEvent(ids []string) event {
	return event{kind: ports.EventDAGReady, payload: map[string]interface{}{"ids": ids}}
}

func taskScheduledEvent(id string) event {
	return event{kind: ports.EventTaskScheduled, payload: map[string]interface{}{"id": id}}
}

func taskStartEvent(id string, ctx TaskContext, at time.Time) event {
	return event{kind: ports.EventTaskStart, payload: map[string]interface{}{
		"id": id, "task": ctx, "at": at,
	}}
}

func taskEndEvent(id string, result Result) event {
	return event{kind: ports.EventTaskEnd, payload: map[string]interface{}{"id": id, "result": result}}
}

func dagReleaseEvent(from string, to []string) event {
	return event{kind: ports.EventDAGRelease, payload: map[string]interface{}{"from": from, "to": to}}
}

func errorEvent(stage, message string, cause error, taskID string) event {
	return event{kind: ports.EventError, payload: map[string]interface{}{
		"stage": stage, "message": message, "cause": cause, "taskId": taskID,
	}}
}

func runEndEvent(endedAt time.Time, duration time.Duration, totals map[string]int) event {
	return event{kind: ports.EventRunEnd, payload: map[string]interface{}{
		"endedAt": endedAt, "durationMs": duration.Milliseconds(), "totals": totals,
	}}
}
