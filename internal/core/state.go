package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/types"
)

// allowedTransitions encodes the update pipeline:
//
//	idle -> checking -> classifying -> selecting -> backing-up ->
//	applying -> verifying -> {committed | rolling-back} -> reporting -> done
//
// with the fast exit selecting -> reporting when nothing is selected,
// idle -> reporting when the manifest has no entries at all, and
// backing-up -> reporting when the snapshot cannot be established.
var allowedTransitions = map[types.RunState][]types.RunState{
	types.RunStateIdle:        {types.RunStateChecking, types.RunStateReporting},
	types.RunStateChecking:    {types.RunStateClassifying},
	types.RunStateClassifying: {types.RunStateSelecting},
	types.RunStateSelecting:   {types.RunStateBackingUp, types.RunStateReporting},
	types.RunStateBackingUp:   {types.RunStateApplying, types.RunStateReporting},
	types.RunStateApplying:    {types.RunStateVerifying, types.RunStateRollingBack},
	types.RunStateVerifying:   {types.RunStateCommitted, types.RunStateRollingBack},
	types.RunStateCommitted:   {types.RunStateReporting},
	types.RunStateRollingBack: {types.RunStateReporting},
	types.RunStateReporting:   {types.RunStateDone},
}

// Advance validates and performs a single state transition. An invalid
// transition is a programmer error in the orchestrator sequencing.
func Advance(current types.RunState, next types.RunState) (types.RunState, error) {
	for _, allowed := range allowedTransitions[current] {
		if allowed == next {
			return next, nil
		}
	}
	return current, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("disallowed run state transition: %s -> %s", current, next))
}

// IsTerminal reports whether the run state is terminal.
func IsTerminal(state types.RunState) bool {
	return state == types.RunStateDone
}
