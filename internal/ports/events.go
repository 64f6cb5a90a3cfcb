package ports

import "context"

const (
	// EventRunStart is emitted once, before the ready-queue is seeded.
	EventRunStart = "run:start"
	// EventPlanReady is emitted after the DAG planner produces a plan.
	EventPlanReady = "plan:ready"
	// EventDAGReady is emitted with the initial ready-queue ids.
	EventDAGReady = "dag:ready"
	// EventTaskScheduled is emitted when a task id is taken off the ready queue, before it starts.
	EventTaskScheduled = "task:scheduled"
	// EventTaskStart is emitted immediately before a task's execute function runs.
	EventTaskStart = "task:start"
	// EventTaskEnd is emitted after a task's execute function returns or throws.
	EventTaskEnd = "task:end"
	// EventDAGRelease is emitted when a completed task's successors are released.
	EventDAGRelease = "dag:release"
	// EventError is emitted when running a task returns an error (stage "task-run").
	EventError = "error"
	// EventRunEnd is emitted once the executor stops scheduling further tasks.
	EventRunEnd = "run:end"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous—Publish blocks until all handlers run—ensuring observability
// signals appear before the process exits. Handlers may spawn goroutines for
// async processing if work should continue in the background. Implementations
// must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
