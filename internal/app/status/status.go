package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage"
)

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Status"})
	return nil
}

// Service reports the persisted state of a project and its build.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Get resolves a project by name first and falls back to its ID.
func (s *Service) Get(ctx context.Context, nameOrID string) (*model.Project, error) {
	if nameOrID == "" {
		return nil, fmt.Errorf("project name or ID is required: %w", model.ErrNotValid)
	}

	project, err := s.repo.GetProjectByName(ctx, nameOrID)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("could not get project by name: %w", err)
	}

	project, err = s.repo.GetProject(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	return project, nil
}

// Progress renders a short human readable description of where a build stands,
// e.g. "phase 2/3 (Core features), step 1/4".
func Progress(p model.Project) string {
	b := p.Build
	if b == nil {
		return "no build"
	}

	var parts []string

	if !b.Flat() {
		title := ""
		if b.CurrentPhase < len(b.Phases) {
			title = b.Phases[b.CurrentPhase].Title
			parts = append(parts, fmt.Sprintf("phase %d/%d (%s)", b.CurrentPhase+1, len(b.Phases), title))
		} else {
			parts = append(parts, fmt.Sprintf("all %d phases completed", len(b.Phases)))
		}
	}

	if len(b.Plan) > 0 {
		parts = append(parts, fmt.Sprintf("step %d/%d", min(b.CurrentStep+1, len(b.Plan)), len(b.Plan)))
	}

	if b.Error != "" {
		parts = append(parts, fmt.Sprintf("error: %s", b.Error))
	}

	if len(parts) == 0 {
		return "waiting for plan"
	}

	return strings.Join(parts, ", ")
}
