package storage

import (
	"context"

	"github.com/appdraft/appdraft/internal/model"
)

// ChangeFunc is called synchronously after every successful project write so
// the UI layer can render live build progress.
type ChangeFunc func(p model.Project)

type notifyRepository struct {
	Repository
	onChange ChangeFunc
}

// NewNotifyRepository wraps a repository so that every successful persisted
// mutation invokes onChange with the written project.
func NewNotifyRepository(r Repository, onChange ChangeFunc) Repository {
	if onChange == nil {
		return r
	}
	return notifyRepository{Repository: r, onChange: onChange}
}

func (n notifyRepository) CreateProject(ctx context.Context, p model.Project) error {
	if err := n.Repository.CreateProject(ctx, p); err != nil {
		return err
	}
	n.onChange(p)
	return nil
}

func (n notifyRepository) UpdateProject(ctx context.Context, p model.Project) error {
	if err := n.Repository.UpdateProject(ctx, p); err != nil {
		return err
	}
	n.onChange(p)
	return nil
}
