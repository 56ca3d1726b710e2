package generation

import (
	"context"

	"github.com/appdraft/appdraft/internal/model"
)

// EventKind enumerates the callback events a generation run can produce.
type EventKind string

const (
	// EventPlan carries the step plan for the current run. Zero or one per run,
	// always first when present.
	EventPlan EventKind = "plan"
	// EventStepStart signals a step started.
	EventStepStart EventKind = "step_start"
	// EventStepComplete signals a step finished.
	EventStepComplete EventKind = "step_complete"
	// EventChunk carries a partial code artifact for live preview.
	EventChunk EventKind = "chunk"
	// EventSuccess terminates the run with the final artifact.
	EventSuccess EventKind = "success"
	// EventError reports a recoverable error. The run continues.
	EventError EventKind = "error"
	// EventFatal terminates the run with a failure.
	EventFatal EventKind = "fatal"
)

// Event is the tagged variant streamed by the generation service. Kind selects
// which payload fields are meaningful.
type Event struct {
	Kind EventKind

	// EventPlan.
	Steps []string

	// EventStepStart, EventStepComplete.
	StepIndex int

	// EventChunk, EventSuccess.
	Code string

	// EventSuccess.
	Explanation string
	Meta        *model.BuildMeta

	// EventError, EventFatal.
	Message     string
	RetriesLeft int

	// EventSuccess, EventFatal: plan snapshot at termination.
	Plan []string
}

// Handler consumes generation events. A run invokes it with zero or one
// EventPlan, then any interleaving of step/chunk/error events, terminating in
// exactly one EventSuccess or EventFatal. A returned error aborts the run.
type Handler interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Request describes a single generation run.
type Request struct {
	// Project is a snapshot of the project, including the full conversation
	// context for the model.
	Project model.Project
	// Instruction is the prompt or phase instruction to execute.
	Instruction string
	// Images are optional image attachments for the instruction.
	Images []string
	// Handler receives the run's events.
	Handler Handler
}

// Service is the external code generation collaborator. Run blocks until the
// run terminates and returns an error on failure or cancellation; the handler
// observes the fine-grained progress.
type Service interface {
	Run(ctx context.Context, req Request) error
}

// Planner is the external planning capability that decomposes an instruction
// into ordered build phases.
type Planner interface {
	PlanPhases(ctx context.Context, project model.Project, instruction string) ([]model.Phase, error)
}
