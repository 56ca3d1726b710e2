package projectcreate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/app/projectcreate"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage/memory"
)

func TestServiceCreate(t *testing.T) {
	tests := map[string]struct {
		opts   projectcreate.CreateOptions
		expErr bool
		errMsg string
	}{
		"Project is created idle with a generated ID": {
			opts: projectcreate.CreateOptions{
				Name:       "alpha",
				OwnerID:    "user-1",
				OwnerEmail: "user@example.com",
			},
		},
		"Missing name is rejected": {
			opts:   projectcreate.CreateOptions{},
			expErr: true,
			errMsg: "name is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(t, err)

			svc, err := projectcreate.NewService(projectcreate.ServiceConfig{Repository: repo})
			require.NoError(t, err)

			project, err := svc.Create(context.Background(), tt.opts)

			if tt.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, project.ID)
			assert.Equal(t, tt.opts.Name, project.Name)
			assert.Equal(t, tt.opts.OwnerID, project.OwnerID)
			assert.Equal(t, model.ProjectStatusIdle, project.Status)
			assert.Nil(t, project.Build)
			assert.False(t, project.CreatedAt.IsZero())

			stored, err := repo.GetProject(context.Background(), project.ID)
			require.NoError(t, err)
			assert.Equal(t, project.Name, stored.Name)
		})
	}
}

func TestServiceCreateDuplicateName(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	svc, err := projectcreate.NewService(projectcreate.ServiceConfig{Repository: repo})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), projectcreate.CreateOptions{Name: "alpha"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), projectcreate.CreateOptions{Name: "alpha"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}
