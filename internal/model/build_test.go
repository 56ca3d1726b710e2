package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/model"
)

func TestBuildStateValidate(t *testing.T) {
	tests := map[string]struct {
		build  func() *model.BuildState
		expErr bool
		errMsg string
	}{
		"Fresh flat build state is valid": {
			build: func() *model.BuildState {
				return model.NewBuildState(nil)
			},
		},
		"Fresh phased build state is valid": {
			build: func() *model.BuildState {
				return model.NewBuildState([]model.Phase{
					model.NewPhase("Foundation", "Set up structure"),
					model.NewPhase("Core features", ""),
				})
			},
		},
		"Empty but non-nil phase list is invalid": {
			build: func() *model.BuildState {
				return model.NewBuildState([]model.Phase{})
			},
			expErr: true,
			errMsg: "phase list must not be empty",
		},
		"Phase without title is invalid": {
			build: func() *model.BuildState {
				return model.NewBuildState([]model.Phase{model.NewPhase("", "desc")})
			},
			expErr: true,
			errMsg: "title is required",
		},
		"Negative retry count is invalid": {
			build: func() *model.BuildState {
				b := model.NewBuildState([]model.Phase{model.NewPhase("Foundation", "")})
				b.Phases[0].RetryCount = -1
				return b
			},
			expErr: true,
			errMsg: "retry count",
		},
		"Last completed step ahead of current step is invalid": {
			build: func() *model.BuildState {
				b := model.NewBuildState(nil)
				b.CurrentStep = 1
				b.LastCompletedStep = 2
				return b
			},
			expErr: true,
			errMsg: "ahead of current step",
		},
		"Current phase past the phase list is allowed (completed build)": {
			build: func() *model.BuildState {
				b := model.NewBuildState([]model.Phase{model.NewPhase("Foundation", "")})
				b.CurrentPhase = 1
				return b
			},
		},
		"Current phase beyond completion is invalid": {
			build: func() *model.BuildState {
				b := model.NewBuildState([]model.Phase{model.NewPhase("Foundation", "")})
				b.CurrentPhase = 2
				return b
			},
			expErr: true,
			errMsg: "current phase out of range",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.build().Validate()

			if tt.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBuildStateResetSteps(t *testing.T) {
	b := model.NewBuildState(nil)
	b.Plan = []string{"one", "two"}
	b.CurrentStep = 1
	b.LastCompletedStep = 0
	b.Error = "boom"

	b.ResetSteps()

	assert.Empty(t, b.Plan)
	assert.Equal(t, 0, b.CurrentStep)
	assert.Equal(t, -1, b.LastCompletedStep)
	assert.Empty(t, b.Error)
}

func TestBuildStateFlat(t *testing.T) {
	assert.True(t, model.NewBuildState(nil).Flat())
	assert.False(t, model.NewBuildState([]model.Phase{model.NewPhase("Foundation", "")}).Flat())
}
