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

const (
	// MaxPhaseRetries is the number of retries a phase gets after its first
	// failed attempt, so a phase is tried at most MaxPhaseRetries+1 times.
	MaxPhaseRetries = 3

	// defaultRetryBackoff is the fixed pause between phase retries. No
	// exponential backoff: the generation service applies its own rate
	// control, this pause only spaces out whole-phase reruns.
	defaultRetryBackoff = 5 * time.Second
)

// SequencerConfig is the configuration for the phase sequencer.
type SequencerConfig struct {
	Repository storage.Repository
	Generator  generation.Service
	Events     *events.Relay
	Logger     log.Logger
	// RetryBackoff overrides the pause between phase retries. Used by tests.
	RetryBackoff time.Duration
}

func (c *SequencerConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}
	if c.Events == nil {
		return fmt.Errorf("event relay is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "build.Sequencer"})
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = defaultRetryBackoff
	}
	return nil
}

// Sequencer drives a build's phases through the generation service one at a
// time, applying the retry policy and advancing or aborting the build. It is
// stateless across runs: all build progress lives on the persisted project,
// which makes a run resumable from its last checkpoint.
type Sequencer struct {
	repo      storage.Repository
	generator generation.Service
	events    *events.Relay
	logger    log.Logger
	backoff   time.Duration
}

// NewSequencer creates a new phase sequencer.
func NewSequencer(cfg SequencerConfig) (*Sequencer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Sequencer{
		repo:      cfg.Repository,
		generator: cfg.Generator,
		events:    cfg.Events,
		logger:    cfg.Logger,
		backoff:   cfg.RetryBackoff,
	}, nil
}

// Run executes the project's build until completion, failure or cancellation.
// The context must come from the build's cancellation token; it is observed at
// every suspension point and cancellation is never retried. Returns
// model.ErrBuildCancelled (wrapped) on cancellation.
func (s *Sequencer) Run(ctx context.Context, project *model.Project, prompt string, images []string) error {
	if project == nil || project.Build == nil {
		return fmt.Errorf("project with a seeded build state is required: %w", model.ErrNotValid)
	}

	adapter, err := NewAdapter(AdapterConfig{
		Repository: s.repo,
		Events:     s.events,
		Logger:     s.logger,
		Prompt:     prompt,
	}, project)
	if err != nil {
		return fmt.Errorf("could not create callback adapter: %w", err)
	}

	logger := s.logger.WithValues(log.Kv{"project": project.ID})

	if project.Build.Flat() {
		return s.runFlat(ctx, project, adapter, prompt, images, logger)
	}

	return s.runPhases(ctx, project, adapter, prompt, images, logger)
}

// runFlat runs a single generation pass with no phase-level retry. Failures
// have already been surfaced through the adapter's final-error handling by
// the time the generator returns.
func (s *Sequencer) runFlat(ctx context.Context, project *model.Project, adapter *Adapter, prompt string, images []string, logger log.Logger) error {
	logger.Debugf("Running flat build")

	err := s.generator.Run(ctx, generation.Request{
		Project:     *project,
		Instruction: prompt,
		Images:      images,
		Handler:     adapter,
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("flat build: %w", model.ErrBuildCancelled)
		}
		s.emit(ctx, events.EventBuildFailed, project, map[string]any{"error": err.Error()})
		return fmt.Errorf("flat build failed: %w", err)
	}

	s.emit(ctx, events.EventBuildCompleted, project, nil)
	logger.Infof("Flat build completed")

	return nil
}

// runPhases executes phases starting at the persisted current phase index, so
// a resumed build never reruns completed phases.
func (s *Sequencer) runPhases(ctx context.Context, project *model.Project, adapter *Adapter, prompt string, images []string, logger log.Logger) error {
	st := project.Build

	for st.CurrentPhase < len(st.Phases) {
		phase := &st.Phases[st.CurrentPhase]
		phase.Status = model.PhaseStatusActive

		if ctx.Err() != nil {
			return fmt.Errorf("phase %d: %w", st.CurrentPhase, model.ErrBuildCancelled)
		}

		s.emit(ctx, events.EventPhaseStarted, project, map[string]any{
			"phase": st.CurrentPhase,
			"title": phase.Title,
		})

		if phase.RetryCount == 0 {
			st.ResetSteps()
		} else {
			st.Error = fmt.Sprintf("Retrying phase (attempt %d/%d)", phase.RetryCount+1, MaxPhaseRetries+1)
		}

		if err := s.persist(ctx, project); err != nil {
			return err
		}

		logger.Infof("Running phase %d/%d: %s (attempt %d)", st.CurrentPhase+1, len(st.Phases), phase.Title, phase.RetryCount+1)

		err := s.generator.Run(ctx, generation.Request{
			Project:     *project,
			Instruction: phaseInstruction(*phase),
			Images:      images,
			Handler:     adapter,
		})
		if err == nil {
			phase.Status = model.PhaseStatusCompleted
			if err := s.persist(ctx, project); err != nil {
				return err
			}
			s.emit(ctx, events.EventPhaseCompleted, project, map[string]any{
				"phase": st.CurrentPhase,
				"title": phase.Title,
			})
			st.CurrentPhase++
			continue
		}

		// Cancellation always takes precedence over the retry budget, so a
		// superseded or stopped build never mutates state again.
		if ctx.Err() != nil {
			return fmt.Errorf("phase %d: %w", st.CurrentPhase, model.ErrBuildCancelled)
		}

		if phase.RetryCount < MaxPhaseRetries {
			phase.RetryCount++
			logger.Warningf("Phase %q failed, retrying (attempt %d/%d): %s", phase.Title, phase.RetryCount+1, MaxPhaseRetries+1, err)

			project.AppendMessage(model.NewMessage(
				model.MessageRoleSystem,
				model.MessageTypeBuildPhase,
				fmt.Sprintf("Phase %q failed, retrying automatically (attempt %d of %d).", phase.Title, phase.RetryCount+1, MaxPhaseRetries+1),
			))
			if err := s.persist(ctx, project); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("phase %d retry wait: %w", st.CurrentPhase, model.ErrBuildCancelled)
			case <-time.After(s.backoff):
			}

			continue
		}

		phase.Status = model.PhaseStatusFailed
		st.Error = fmt.Sprintf("Phase failed after %d attempts: %s", MaxPhaseRetries+1, err)
		project.Status = model.ProjectStatusIdle
		if perr := s.persist(ctx, project); perr != nil {
			return perr
		}

		s.emit(ctx, events.EventBuildFailed, project, map[string]any{
			"phase": st.CurrentPhase,
			"title": phase.Title,
			"error": err.Error(),
		})

		return fmt.Errorf("phase %q failed after %d attempts: %w", phase.Title, MaxPhaseRetries+1, err)
	}

	project.Status = model.ProjectStatusIdle
	if err := s.persist(ctx, project); err != nil {
		return err
	}

	s.emit(ctx, events.EventBuildCompleted, project, nil)
	logger.Infof("Build completed: %d phases", len(st.Phases))

	return nil
}

func (s *Sequencer) persist(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProject(ctx, *project); err != nil {
		return fmt.Errorf("could not persist project: %w", err)
	}

	return nil
}

func (s *Sequencer) emit(ctx context.Context, name string, project *model.Project, payload map[string]any) {
	s.events.Emit(ctx, events.Event{
		Name:      name,
		ProjectID: project.ID,
		UserID:    project.OwnerID,
		UserEmail: project.OwnerEmail,
		Payload:   payload,
	})
}

func phaseInstruction(p model.Phase) string {
	if p.Description == "" {
		return p.Title
	}
	return fmt.Sprintf("%s\n%s", p.Title, p.Description)
}
