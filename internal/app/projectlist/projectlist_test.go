package projectlist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/app/projectlist"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage/storagemock"
)

func TestServiceList(t *testing.T) {
	now := time.Now().UTC()

	tests := map[string]struct {
		setupMocks func(repo *storagemock.MockRepository)
		expErr     bool
		expIDs     []string
	}{
		"Projects are sorted newest first": {
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("ListProjects", mock.Anything).Return([]model.Project{
					{ID: "old", CreatedAt: now.Add(-time.Hour)},
					{ID: "new", CreatedAt: now},
					{ID: "middle", CreatedAt: now.Add(-time.Minute)},
				}, nil)
			},
			expIDs: []string{"new", "middle", "old"},
		},
		"Empty repository returns no projects": {
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("ListProjects", mock.Anything).Return([]model.Project{}, nil)
			},
			expIDs: []string{},
		},
		"Repository failure is propagated": {
			setupMocks: func(repo *storagemock.MockRepository) {
				repo.On("ListProjects", mock.Anything).
					Return(nil, errors.New("database gone"))
			},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mockRepo := storagemock.NewMockRepository(t)
			tt.setupMocks(mockRepo)

			svc, err := projectlist.NewService(projectlist.ServiceConfig{Repository: mockRepo})
			require.NoError(t, err)

			projects, err := svc.List(context.Background())

			if tt.expErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			ids := make([]string, 0, len(projects))
			for _, p := range projects {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expIDs, ids)
		})
	}
}
