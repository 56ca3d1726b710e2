package storage

import (
	"context"

	"github.com/appdraft/appdraft/internal/model"
)

// Repository is the interface for project persistence.
//
// Writes for a single project are strictly ordered by the caller: while a
// build is active only its sequencer writes the project, so implementations
// don't need per-project transactional conflict handling.
type Repository interface {
	CreateProject(ctx context.Context, p model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetProjectByName(ctx context.Context, name string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, p model.Project) error
	DeleteProject(ctx context.Context, id string) error
}
