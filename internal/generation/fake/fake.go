package fake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appdraft/appdraft/internal/generation"
	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/model"
)

// ServiceConfig is the configuration for the fake generation service.
type ServiceConfig struct {
	Logger log.Logger
	// Script replays a fixed event sequence instead of synthesizing one. See
	// LoadScript.
	Script []generation.Event
	// StepDelay pauses between synthesized events to mimic model latency.
	StepDelay time.Duration
}

func (c *ServiceConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "generation.Fake"})
	return nil
}

// Service is a fake implementation of the generation.Service interface. It
// synthesizes a deterministic plan, step and artifact sequence from the
// instruction, or replays a scripted one, without calling a real model.
type Service struct {
	logger log.Logger
	script []generation.Event
	delay  time.Duration
}

// NewService creates a new fake generation service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		logger: cfg.Logger,
		script: cfg.Script,
		delay:  cfg.StepDelay,
	}, nil
}

// Run executes a fake generation run, delivering events to the handler.
func (s *Service) Run(ctx context.Context, req generation.Request) error {
	if req.Handler == nil {
		return fmt.Errorf("handler is required: %w", model.ErrNotValid)
	}

	if len(s.script) > 0 {
		return s.replay(ctx, req)
	}

	return s.synthesize(ctx, req)
}

func (s *Service) replay(ctx context.Context, req generation.Request) error {
	for _, ev := range s.script {
		if err := s.deliver(ctx, req, ev); err != nil {
			return err
		}
		if ev.Kind == generation.EventFatal {
			return errors.New(ev.Message)
		}
		if ev.Kind == generation.EventSuccess {
			return nil
		}
	}

	return fmt.Errorf("script ended without a terminal event: %w", model.ErrNotValid)
}

func (s *Service) synthesize(ctx context.Context, req generation.Request) error {
	start := time.Now()
	steps := planSteps(req.Instruction)

	if err := s.deliver(ctx, req, generation.Event{Kind: generation.EventPlan, Steps: steps}); err != nil {
		return err
	}

	var code strings.Builder
	code.WriteString(fmt.Sprintf("<!-- generated for: %s -->\n", req.Instruction))

	for i, step := range steps {
		if err := s.deliver(ctx, req, generation.Event{Kind: generation.EventStepStart, StepIndex: i}); err != nil {
			return err
		}

		code.WriteString(fmt.Sprintf("<section data-step=%q>%s</section>\n", fmt.Sprint(i), step))
		if err := s.deliver(ctx, req, generation.Event{Kind: generation.EventChunk, Code: code.String()}); err != nil {
			return err
		}

		if err := s.deliver(ctx, req, generation.Event{Kind: generation.EventStepComplete, StepIndex: i}); err != nil {
			return err
		}
	}

	return s.deliver(ctx, req, generation.Event{
		Kind:        generation.EventSuccess,
		Code:        code.String(),
		Explanation: fmt.Sprintf("Built %q in %d steps.", req.Instruction, len(steps)),
		Meta: &model.BuildMeta{
			Elapsed:    time.Since(start),
			CreditCost: float64(len(steps)),
		},
		Plan: steps,
	})
}

// deliver applies the configured latency and hands the event to the handler.
// Cancellation wins over delivery.
func (s *Service) deliver(ctx context.Context, req generation.Request, ev generation.Event) error {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	} else if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.Debugf("Delivering fake %s event", ev.Kind)

	return req.Handler.HandleEvent(ctx, ev)
}

func planSteps(instruction string) []string {
	subject := strings.TrimSpace(instruction)
	if i := strings.IndexByte(subject, '\n'); i >= 0 {
		subject = subject[:i]
	}

	return []string{
		"Lay out the page structure",
		fmt.Sprintf("Implement %s", subject),
		"Wire interactions and polish styling",
	}
}

// PlannerConfig is the configuration for the fake planner.
type PlannerConfig struct {
	Logger log.Logger
}

func (c *PlannerConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "generation.FakePlanner"})
	return nil
}

// Planner is a fake implementation of the generation.Planner interface,
// returning a fixed three phase decomposition for any instruction.
type Planner struct {
	logger log.Logger
}

// NewPlanner creates a new fake planner.
func NewPlanner(cfg PlannerConfig) (*Planner, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Planner{logger: cfg.Logger}, nil
}

// PlanPhases decomposes the instruction into foundation, features and
// refinement phases.
func (p *Planner) PlanPhases(ctx context.Context, project model.Project, instruction string) ([]model.Phase, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.logger.Debugf("Planning phases for project %s", project.ID)

	return []model.Phase{
		model.NewPhase("Foundation", fmt.Sprintf("Set up the structure and layout for: %s", instruction)),
		model.NewPhase("Core features", fmt.Sprintf("Implement the main functionality of: %s", instruction)),
		model.NewPhase("Refinements", "Polish styling, empty states and interactions"),
	}, nil
}
