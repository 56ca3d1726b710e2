package projectcreate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage"
)

// ServiceConfig is the configuration for the project creation service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.ProjectCreate"})
	return nil
}

// Service creates new projects.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new project creation service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// CreateOptions are the options to create a project.
type CreateOptions struct {
	Name       string
	OwnerID    string
	OwnerEmail string
}

// Create creates an idle project with an empty transcript and no build state.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (*model.Project, error) {
	now := time.Now().UTC()
	project := model.Project{
		ID:         uuid.New().String(),
		OwnerID:    opts.OwnerID,
		OwnerEmail: opts.OwnerEmail,
		Name:       opts.Name,
		Status:     model.ProjectStatusIdle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("could not create project: %w", err)
	}

	s.logger.Infof("Created project %s (%s)", project.Name, project.ID)

	return &project, nil
}
