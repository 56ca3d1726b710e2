package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/appdraft/appdraft/internal/build"
	"github.com/appdraft/appdraft/internal/cancel"
	"github.com/appdraft/appdraft/internal/events"
	"github.com/appdraft/appdraft/internal/generation"
	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage"
)

// ServiceConfig is the configuration for the build trigger service.
type ServiceConfig struct {
	Repository storage.Repository
	Generator  generation.Service
	// Planner decomposes instructions into phases. Optional: without one every
	// build runs flat.
	Planner  generation.Planner
	Registry *cancel.Registry
	Events   *events.Relay
	Logger   log.Logger
	// PlanPolicy decides when to ask the planner. Defaults to
	// build.DefaultPlanPolicy.
	PlanPolicy build.PlanPolicy
	// RetryBackoff is forwarded to the sequencer. Used by tests.
	RetryBackoff time.Duration
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}
	if c.Registry == nil {
		return fmt.Errorf("cancellation registry is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Trigger"})
	if c.Events == nil {
		relay, err := events.NewRelay(events.RelayConfig{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create default event relay: %w", err)
		}
		c.Events = relay
	}
	if c.PlanPolicy == nil {
		c.PlanPolicy = build.DefaultPlanPolicy
	}
	return nil
}

// Service is the entry point for "user submitted a new instruction". It seeds
// the build state, enforces one active build per project through the
// cancellation registry and launches the sequencer asynchronously.
type Service struct {
	repo      storage.Repository
	planner   generation.Planner
	registry  *cancel.Registry
	events    *events.Relay
	logger    log.Logger
	policy    build.PlanPolicy
	sequencer *build.Sequencer

	wg sync.WaitGroup
}

// NewService creates a new trigger service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sequencer, err := build.NewSequencer(build.SequencerConfig{
		Repository:   cfg.Repository,
		Generator:    cfg.Generator,
		Events:       cfg.Events,
		Logger:       cfg.Logger,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create sequencer: %w", err)
	}

	return &Service{
		repo:      cfg.Repository,
		planner:   cfg.Planner,
		registry:  cfg.Registry,
		events:    cfg.Events,
		logger:    cfg.Logger,
		policy:    cfg.PlanPolicy,
		sequencer: sequencer,
	}, nil
}

// Request represents a new build instruction for a project.
type Request struct {
	ProjectID   string
	Instruction string
	Images      []string
}

// Trigger starts a build for the instruction and returns immediately; build
// progress arrives through persisted state changes. A build already running
// for the project is cancelled first.
func (s *Service) Trigger(ctx context.Context, req Request) error {
	if req.Instruction == "" {
		return fmt.Errorf("instruction is required: %w", model.ErrNotValid)
	}

	project, err := s.repo.GetProject(ctx, req.ProjectID)
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	s.appendUserMessage(project, req)

	phases := s.planPhases(ctx, *project, req.Instruction)

	project.Build = model.NewBuildState(phases)
	project.Status = model.ProjectStatusGenerating
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProject(ctx, *project); err != nil {
		return fmt.Errorf("could not persist build state: %w", err)
	}

	token := s.registry.Start(project.ID)

	s.events.Emit(ctx, events.Event{
		Name:      events.EventBuildStarted,
		ProjectID: project.ID,
		UserID:    project.OwnerID,
		UserEmail: project.OwnerEmail,
		Payload:   map[string]any{"flat": phases == nil, "phases": len(phases)},
	})

	s.launch(token, project, req.Instruction, req.Images)

	s.logger.Infof("Triggered build for project %s (phases: %d)", project.ID, len(phases))

	return nil
}

// Resume relaunches the sequencer for a project with a persisted build
// checkpoint, continuing from the current phase without rerunning completed
// ones.
func (s *Service) Resume(ctx context.Context, projectID string) error {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	if project.Build == nil {
		return fmt.Errorf("project has no build to resume: %w", model.ErrNotValid)
	}

	prompt := lastUserInstruction(*project)
	if prompt == "" {
		return fmt.Errorf("project has no user instruction to resume from: %w", model.ErrNotValid)
	}

	project.Status = model.ProjectStatusGenerating
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProject(ctx, *project); err != nil {
		return fmt.Errorf("could not persist build state: %w", err)
	}

	token := s.registry.Start(project.ID)

	s.events.Emit(ctx, events.Event{
		Name:      events.EventBuildStarted,
		ProjectID: project.ID,
		UserID:    project.OwnerID,
		UserEmail: project.OwnerEmail,
		Payload:   map[string]any{"resumed": true, "phase": project.Build.CurrentPhase},
	})

	s.launch(token, project, prompt, nil)

	s.logger.Infof("Resumed build for project %s at phase %d", project.ID, project.Build.CurrentPhase)

	return nil
}

// Stop cancels the project's active build, if any. The cancelled build
// observes the token at its next suspension point and unwinds without
// mutating state again.
func (s *Service) Stop(projectID string) {
	s.registry.Stop(projectID)
}

// Wait blocks until all in-flight builds launched by this service finish.
// Used on shutdown to drain gracefully.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) launch(token *cancel.Token, project *model.Project, prompt string, images []string) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.registry.Finish(token)

		err := s.sequencer.Run(token.Context(), project, prompt, images)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrBuildCancelled):
			s.logger.Debugf("Build cancelled for project %s", project.ID)
		default:
			s.logger.Errorf("Build failed for project %s: %s", project.ID, err)
			s.events.Audit(context.Background(), events.AuditEntry{
				Level:     events.LevelCritical,
				Source:    "sequencer",
				Message:   err.Error(),
				ProjectID: project.ID,
			})
		}
	}()
}

// appendUserMessage adds the instruction to the transcript. When the UI layer
// already appended the text for this submission, the images are merged into
// that message instead of duplicating it.
func (s *Service) appendUserMessage(project *model.Project, req Request) {
	if last := project.LastMessage(); last != nil &&
		last.Role == model.MessageRoleUser && last.Content == req.Instruction {
		last.Images = mergeImages(last.Images, req.Images)
		return
	}

	msg := model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, req.Instruction)
	msg.Images = req.Images
	project.AppendMessage(msg)
}

// planPhases asks the planner for a phase decomposition when the policy calls
// for one. Planning failures fall back to a flat build, they never block the
// instruction.
func (s *Service) planPhases(ctx context.Context, project model.Project, instruction string) []model.Phase {
	if s.planner == nil || !s.policy(instruction) {
		return nil
	}

	phases, err := s.planner.PlanPhases(ctx, project, instruction)
	if err != nil {
		s.logger.Warningf("Planning failed, falling back to flat build: %s", err)
		return nil
	}
	if len(phases) == 0 {
		return nil
	}

	for i := range phases {
		phases[i].Status = model.PhaseStatusPending
		phases[i].RetryCount = 0
	}

	return phases
}

func mergeImages(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, img := range existing {
		seen[img] = true
	}
	for _, img := range incoming {
		if !seen[img] {
			existing = append(existing, img)
			seen[img] = true
		}
	}
	return existing
}

func lastUserInstruction(p model.Project) string {
	for i := len(p.Messages) - 1; i >= 0; i-- {
		if p.Messages[i].Role == model.MessageRoleUser {
			return p.Messages[i].Content
		}
	}
	return ""
}
