package cancel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdraft/appdraft/internal/cancel"
)

func TestRegistryStart(t *testing.T) {
	registry, err := cancel.NewRegistry(cancel.RegistryConfig{})
	require.NoError(t, err)

	token := registry.Start("project-1")

	assert.False(t, token.Cancelled())
	assert.NoError(t, token.Context().Err())
	assert.True(t, registry.Active("project-1"))
	assert.False(t, registry.Active("project-2"))
}

func TestRegistryStartSupersedesActiveBuild(t *testing.T) {
	registry, err := cancel.NewRegistry(cancel.RegistryConfig{})
	require.NoError(t, err)

	first := registry.Start("project-1")
	second := registry.Start("project-1")

	assert.True(t, first.Cancelled(), "superseded token must be cancelled")
	assert.False(t, second.Cancelled())
	assert.True(t, registry.Active("project-1"))
}

func TestRegistryStop(t *testing.T) {
	registry, err := cancel.NewRegistry(cancel.RegistryConfig{})
	require.NoError(t, err)

	token := registry.Start("project-1")
	registry.Stop("project-1")

	assert.True(t, token.Cancelled())
	assert.False(t, registry.Active("project-1"))
}

func TestRegistryStopWithoutActiveBuildIsNoop(t *testing.T) {
	registry, err := cancel.NewRegistry(cancel.RegistryConfig{})
	require.NoError(t, err)

	registry.Stop("unknown-project")

	assert.False(t, registry.Active("unknown-project"))
}

func TestRegistryFinish(t *testing.T) {
	registry, err := cancel.NewRegistry(cancel.RegistryConfig{})
	require.NoError(t, err)

	token := registry.Start("project-1")
	registry.Finish(token)

	assert.True(t, token.Cancelled())
	assert.False(t, registry.Active("project-1"))
}

func TestRegistryFinishKeepsSupersedingToken(t *testing.T) {
	registry, err := cancel.NewRegistry(cancel.RegistryConfig{})
	require.NoError(t, err)

	first := registry.Start("project-1")
	second := registry.Start("project-1")

	// The superseded build unwinds and finishes; the new build must stay
	// registered.
	registry.Finish(first)

	assert.True(t, registry.Active("project-1"))
	assert.False(t, second.Cancelled())

	registry.Finish(second)
	assert.False(t, registry.Active("project-1"))
}
