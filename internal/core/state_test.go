package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestAdvanceHappyPath(t *testing.T) {
	path := []types.RunState{
		types.RunStateChecking,
		types.RunStateClassifying,
		types.RunStateSelecting,
		types.RunStateBackingUp,
		types.RunStateApplying,
		types.RunStateVerifying,
		types.RunStateCommitted,
		types.RunStateReporting,
		types.RunStateDone,
	}
	state := types.RunStateIdle
	for _, next := range path {
		moved, err := Advance(state, next)
		require.NoError(t, err)
		state = moved
	}
	assert.True(t, IsTerminal(state))
}

func TestAdvanceRollbackPath(t *testing.T) {
	state := types.RunStateVerifying
	state, err := Advance(state, types.RunStateRollingBack)
	require.NoError(t, err)
	state, err = Advance(state, types.RunStateReporting)
	require.NoError(t, err)
	_, err = Advance(state, types.RunStateDone)
	require.NoError(t, err)
}

func TestAdvanceFastExits(t *testing.T) {
	// Empty manifest: straight to reporting.
	_, err := Advance(types.RunStateIdle, types.RunStateReporting)
	require.NoError(t, err)

	// Nothing selected: no backup is ever created.
	_, err = Advance(types.RunStateSelecting, types.RunStateReporting)
	require.NoError(t, err)

	// Backup failure: abort before mutation.
	_, err = Advance(types.RunStateBackingUp, types.RunStateReporting)
	require.NoError(t, err)
}

func TestAdvanceRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		from types.RunState
		to   types.RunState
	}{
		{types.RunStateIdle, types.RunStateApplying},
		{types.RunStateChecking, types.RunStateVerifying},
		{types.RunStateCommitted, types.RunStateRollingBack},
		{types.RunStateDone, types.RunStateChecking},
		{types.RunStateReporting, types.RunStateVerifying},
	}
	for _, tc := range cases {
		got, err := Advance(tc.from, tc.to)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, got)
	}
}
