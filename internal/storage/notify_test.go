package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage"
	"github.com/appdraft/appdraft/internal/storage/storagemock"
)

func TestNotifyRepository(t *testing.T) {
	tests := map[string]struct {
		op         func(repo storage.Repository) error
		setupMocks func(repo *storagemock.MockRepository)
		expChanges int
	}{
		"Successful create notifies": {
			op: func(repo storage.Repository) error {
				return repo.CreateProject(context.Background(), model.Project{ID: "p1"})
			},
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("CreateProject", mock.Anything, mock.Anything).Return(nil)
			},
			expChanges: 1,
		},
		"Successful update notifies": {
			op: func(repo storage.Repository) error {
				return repo.UpdateProject(context.Background(), model.Project{ID: "p1"})
			},
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("UpdateProject", mock.Anything, mock.Anything).Return(nil)
			},
			expChanges: 1,
		},
		"Failed update does not notify": {
			op: func(repo storage.Repository) error {
				return repo.UpdateProject(context.Background(), model.Project{ID: "p1"})
			},
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("UpdateProject", mock.Anything, mock.Anything).
					Return(errors.New("database gone"))
			},
			expChanges: 0,
		},
		"Reads do not notify": {
			op: func(repo storage.Repository) error {
				_, err := repo.GetProject(context.Background(), "p1")
				return err
			},
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("GetProject", mock.Anything, "p1").
					Return(&model.Project{ID: "p1"}, nil)
			},
			expChanges: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mockRepo := storagemock.NewMockRepository(t)
			tt.setupMocks(mockRepo)

			changes := 0
			repo := storage.NewNotifyRepository(mockRepo, func(p model.Project) {
				changes++
				assert.Equal(t, "p1", p.ID)
			})

			err := tt.op(repo)
			if tt.expChanges == 0 && err != nil {
				require.Error(t, err)
			}

			assert.Equal(t, tt.expChanges, changes)
		})
	}
}

func TestNewNotifyRepositoryWithoutCallback(t *testing.T) {
	mockRepo := storagemock.NewMockRepository(t)

	repo := storage.NewNotifyRepository(mockRepo, nil)

	assert.Equal(t, mockRepo, repo)
}
