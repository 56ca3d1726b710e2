package build

import (
	"context"
	"fmt"
	"time"

	"github.com/appdraft/appdraft/internal/events"
	"github.com/appdraft/appdraft/internal/generation"
	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage"
)

// AdapterConfig is the configuration for the callback adapter.
type AdapterConfig struct {
	Repository storage.Repository
	Events     *events.Relay
	Logger     log.Logger
	// Prompt is the originating user instruction. Its prefix titles the job
	// summary messages the adapter appends.
	Prompt string
}

func (c *AdapterConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Events == nil {
		return fmt.Errorf("event relay is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "build.Adapter"})
	return nil
}

// Adapter translates generation service events into project and build state
// mutations. Every mutation is persisted before the adapter returns, so a
// crash at any point leaves a resumable checkpoint. Audit and lifecycle
// writes are fire-and-forget; a persistence failure is returned and aborts
// the current step.
type Adapter struct {
	repo    storage.Repository
	events  *events.Relay
	logger  log.Logger
	prompt  string
	project *model.Project
}

// NewAdapter creates an adapter bound to a project with an active build state.
func NewAdapter(cfg AdapterConfig, project *model.Project) (*Adapter, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if project == nil || project.Build == nil {
		return nil, fmt.Errorf("project with an active build state is required: %w", model.ErrNotValid)
	}

	return &Adapter{
		repo:    cfg.Repository,
		events:  cfg.Events,
		logger:  cfg.Logger.WithValues(log.Kv{"project": project.ID}),
		prompt:  cfg.Prompt,
		project: project,
	}, nil
}

// HandleEvent dispatches a single generation event.
func (a *Adapter) HandleEvent(ctx context.Context, ev generation.Event) error {
	switch ev.Kind {
	case generation.EventPlan:
		return a.onPlanUpdate(ctx, ev.Steps)
	case generation.EventStepStart:
		return a.onStepStart(ctx, ev.StepIndex)
	case generation.EventStepComplete:
		return a.onStepComplete(ctx, ev.StepIndex)
	case generation.EventChunk:
		return a.onChunkComplete(ctx, ev.Code)
	case generation.EventSuccess:
		return a.onSuccess(ctx, ev)
	case generation.EventError:
		return a.onError(ctx, ev.Message, ev.RetriesLeft)
	case generation.EventFatal:
		return a.onFinalError(ctx, ev.Message, ev.Plan)
	default:
		return fmt.Errorf("unknown generation event kind %q: %w", ev.Kind, model.ErrNotValid)
	}
}

func (a *Adapter) onPlanUpdate(ctx context.Context, steps []string) error {
	b := a.project.Build
	b.Plan = steps
	b.CurrentStep = 0
	b.LastCompletedStep = -1
	b.Error = ""
	a.project.Status = model.ProjectStatusGenerating

	return a.persist(ctx)
}

func (a *Adapter) onStepStart(ctx context.Context, stepIndex int) error {
	b := a.project.Build
	b.CurrentStep = stepIndex
	b.Error = ""

	return a.persist(ctx)
}

func (a *Adapter) onStepComplete(ctx context.Context, stepIndex int) error {
	a.project.Build.LastCompletedStep = stepIndex

	return a.persist(ctx)
}

func (a *Adapter) onChunkComplete(ctx context.Context, code string) error {
	a.project.Code = code

	return a.persist(ctx)
}

func (a *Adapter) onSuccess(ctx context.Context, ev generation.Event) error {
	b := a.project.Build

	a.project.Code = ev.Code

	plan := ev.Plan
	if len(plan) == 0 {
		plan = b.Plan
	}

	msg := model.NewMessage(model.MessageRoleAssistant, model.MessageTypeJobSummary, ev.Explanation)
	msg.Summary = &model.JobSummary{
		Title:  model.SummaryTitle(a.prompt),
		Plan:   plan,
		Status: model.JobStatusCompleted,
		Meta:   ev.Meta,
	}
	a.project.AppendMessage(msg)

	b.Plan = plan
	b.CurrentStep = len(plan)
	b.LastCompletedStep = len(plan) - 1
	b.Error = ""

	// Phased builds return to idle only once the sequencer has run every phase.
	if b.Flat() {
		a.project.Status = model.ProjectStatusIdle
	}

	return a.persist(ctx)
}

func (a *Adapter) onError(ctx context.Context, message string, retriesLeft int) error {
	a.project.Build.Error = message

	if err := a.persist(ctx); err != nil {
		return err
	}

	a.events.Audit(ctx, events.AuditEntry{
		Level:     events.LevelError,
		Source:    "generation",
		Message:   fmt.Sprintf("recoverable error (%d retries left): %s", retriesLeft, message),
		ProjectID: a.project.ID,
	})

	return nil
}

func (a *Adapter) onFinalError(ctx context.Context, message string, plan []string) error {
	// The "needs backend" sentinel is an in-band signal, not a failure: inform
	// the user and return to idle without marking the job failed.
	if message == model.BackendRequiredMessage {
		a.project.AppendMessage(model.NewMessage(model.MessageRoleAssistant, model.MessageTypeAssistantResponse, message))
		a.project.Status = model.ProjectStatusIdle
		return a.persist(ctx)
	}

	b := a.project.Build
	if len(plan) == 0 {
		plan = b.Plan
	}

	msg := model.NewMessage(model.MessageRoleAssistant, model.MessageTypeJobSummary, message)
	msg.Summary = &model.JobSummary{
		Title:  model.SummaryTitle(a.prompt),
		Plan:   plan,
		Status: model.JobStatusFailed,
	}
	a.project.AppendMessage(msg)

	b.Error = message
	a.project.Status = model.ProjectStatusIdle

	if err := a.persist(ctx); err != nil {
		return err
	}

	a.events.Audit(ctx, events.AuditEntry{
		Level:     events.LevelCritical,
		Source:    "generation",
		Message:   message,
		ProjectID: a.project.ID,
	})

	return nil
}

func (a *Adapter) persist(ctx context.Context) error {
	a.project.UpdatedAt = time.Now().UTC()

	if err := a.repo.UpdateProject(ctx, *a.project); err != nil {
		return fmt.Errorf("could not persist project: %w", err)
	}

	return nil
}
