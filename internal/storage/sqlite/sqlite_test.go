package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage/sqlite"
)

func newTestRepository(t *testing.T) *sqlite.Repository {
	t.Helper()

	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "appdraft-test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func testProject(id, name string) model.Project {
	now := time.Now().UTC().Truncate(time.Second)
	return model.Project{
		ID:         id,
		OwnerID:    "user-1",
		OwnerEmail: "user@example.com",
		Name:       name,
		Status:     model.ProjectStatusIdle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	p := testProject("p1", "alpha")
	p.Code = "<html>app</html>"
	p.Build = model.NewBuildState([]model.Phase{
		model.NewPhase("Foundation", "Set up structure"),
		model.NewPhase("Core features", ""),
	})
	p.Build.Plan = []string{"Header", "Body"}
	p.Build.CurrentStep = 1
	p.Build.LastCompletedStep = 0

	msg := model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "Build a dashboard")
	msg.Images = []string{"mock.png"}
	p.AppendMessage(msg)

	summary := model.NewMessage(model.MessageRoleAssistant, model.MessageTypeJobSummary, "Done.")
	summary.Summary = &model.JobSummary{
		Title:  "Build a dashboard",
		Plan:   []string{"Header", "Body"},
		Status: model.JobStatusCompleted,
		Meta:   &model.BuildMeta{Elapsed: 2 * time.Second, CreditCost: 1.5},
	}
	p.AppendMessage(summary)

	require.NoError(t, repo.CreateProject(context.Background(), p))

	got, err := repo.GetProject(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Code, got.Code)
	assert.Equal(t, p.Status, got.Status)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	require.NotNil(t, got.Build)
	assert.Equal(t, p.Build.Plan, got.Build.Plan)
	assert.Equal(t, 1, got.Build.CurrentStep)
	assert.Equal(t, 0, got.Build.LastCompletedStep)
	require.Len(t, got.Build.Phases, 2)
	assert.Equal(t, "Foundation", got.Build.Phases[0].Title)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Build a dashboard", got.Messages[0].Content)
	assert.Equal(t, []string{"mock.png"}, got.Messages[0].Images)
	require.NotNil(t, got.Messages[1].Summary)
	assert.Equal(t, model.JobStatusCompleted, got.Messages[1].Summary.Status)
	assert.Equal(t, 1.5, got.Messages[1].Summary.Meta.CreditCost)
}

func TestRepositoryCreateDuplicateName(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.CreateProject(context.Background(), testProject("p1", "alpha")))

	err := repo.CreateProject(context.Background(), testProject("p2", "alpha"))
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestRepositoryGetNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.GetProjectByName(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryUpdateProject(t *testing.T) {
	repo := newTestRepository(t)

	p := testProject("p1", "alpha")
	require.NoError(t, repo.CreateProject(context.Background(), p))

	p.Status = model.ProjectStatusGenerating
	p.Build = model.NewBuildState(nil)
	p.AppendMessage(model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "first"))
	require.NoError(t, repo.UpdateProject(context.Background(), p))

	// Replaying the whole transcript on the next update must not duplicate rows.
	p.AppendMessage(model.NewMessage(model.MessageRoleSystem, model.MessageTypeBuildPhase, "retrying"))
	require.NoError(t, repo.UpdateProject(context.Background(), p))

	got, err := repo.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusGenerating, got.Status)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "first", got.Messages[0].Content)
	assert.Equal(t, "retrying", got.Messages[1].Content)

	err = repo.UpdateProject(context.Background(), testProject("missing", "nope"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryDeleteProject(t *testing.T) {
	repo := newTestRepository(t)

	p := testProject("p1", "alpha")
	p.AppendMessage(model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "hello"))
	require.NoError(t, repo.CreateProject(context.Background(), p))

	require.NoError(t, repo.DeleteProject(context.Background(), "p1"))

	_, err := repo.GetProject(context.Background(), "p1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.DeleteProject(context.Background(), "p1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryListProjects(t *testing.T) {
	repo := newTestRepository(t)

	p1 := testProject("p1", "alpha")
	p2 := testProject("p2", "beta")
	p2.CreatedAt = p2.CreatedAt.Add(time.Minute)
	require.NoError(t, repo.CreateProject(context.Background(), p1))
	require.NoError(t, repo.CreateProject(context.Background(), p2))

	projects, err := repo.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	// Newest first.
	assert.Equal(t, "p2", projects[0].ID)
	assert.Equal(t, "p1", projects[1].ID)
}
