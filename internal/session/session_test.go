package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokophones/storefront/internal/localstate"
)

func TestAdminFlagSurvivesReload(t *testing.T) {
	state, err := localstate.New(t.TempDir())
	require.NoError(t, err)

	s, err := New(state)
	require.NoError(t, err)
	assert.False(t, s.IsAdmin())

	require.NoError(t, s.SetAdmin(true))

	reloaded, err := New(state)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdmin())

	require.NoError(t, reloaded.SetAdmin(false))

	again, err := New(state)
	require.NoError(t, err)
	assert.False(t, again.IsAdmin())
}
