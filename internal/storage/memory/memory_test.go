package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage/memory"
)

func testProject(id, name string) model.Project {
	now := time.Now().UTC()
	return model.Project{
		ID:        id,
		Name:      name,
		Status:    model.ProjectStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepositoryCreateProject(t *testing.T) {
	tests := map[string]struct {
		seed    []model.Project
		project model.Project
		expErr  error
	}{
		"New project is created": {
			project: testProject("p1", "alpha"),
		},
		"Duplicate ID returns already exists": {
			seed:    []model.Project{testProject("p1", "alpha")},
			project: testProject("p1", "beta"),
			expErr:  model.ErrAlreadyExists,
		},
		"Duplicate name returns already exists": {
			seed:    []model.Project{testProject("p1", "alpha")},
			project: testProject("p2", "alpha"),
			expErr:  model.ErrAlreadyExists,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(t, err)
			for _, p := range tt.seed {
				require.NoError(t, repo.CreateProject(context.Background(), p))
			}

			err = repo.CreateProject(context.Background(), tt.project)

			if tt.expErr != nil {
				assert.ErrorIs(t, err, tt.expErr)
			} else {
				require.NoError(t, err)
				got, err := repo.GetProject(context.Background(), tt.project.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.project.Name, got.Name)
			}
		})
	}
}

func TestRepositoryGetProject(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	require.NoError(t, repo.CreateProject(context.Background(), testProject("p1", "alpha")))

	got, err := repo.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)

	_, err = repo.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	byName, err := repo.GetProjectByName(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "p1", byName.ID)

	_, err = repo.GetProjectByName(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryUpdateProject(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	p := testProject("p1", "alpha")
	require.NoError(t, repo.CreateProject(context.Background(), p))

	p.Status = model.ProjectStatusGenerating
	p.Build = model.NewBuildState(nil)
	require.NoError(t, repo.UpdateProject(context.Background(), p))

	got, err := repo.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusGenerating, got.Status)
	assert.NotNil(t, got.Build)

	err = repo.UpdateProject(context.Background(), testProject("missing", "nope"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryDeleteProject(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	require.NoError(t, repo.CreateProject(context.Background(), testProject("p1", "alpha")))

	require.NoError(t, repo.DeleteProject(context.Background(), "p1"))

	_, err = repo.GetProject(context.Background(), "p1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.DeleteProject(context.Background(), "p1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	p := testProject("p1", "alpha")
	p.Build = model.NewBuildState([]model.Phase{model.NewPhase("Foundation", "")})
	p.AppendMessage(model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "hello"))
	require.NoError(t, repo.CreateProject(context.Background(), p))

	got, err := repo.GetProject(context.Background(), "p1")
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the stored project.
	got.Build.Phases[0].Status = model.PhaseStatusFailed
	got.Messages[0].Content = "tampered"

	fresh, err := repo.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusPending, fresh.Build.Phases[0].Status)
	assert.Equal(t, "hello", fresh.Messages[0].Content)
}

func TestRepositoryListProjects(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	require.NoError(t, repo.CreateProject(context.Background(), testProject("p1", "alpha")))
	require.NoError(t, repo.CreateProject(context.Background(), testProject("p2", "beta")))

	projects, err := repo.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
