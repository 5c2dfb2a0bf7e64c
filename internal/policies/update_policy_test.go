package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func candidate(name string, kind types.UpdateKind, breaking bool) types.Candidate {
	return types.Candidate{
		Name:           name,
		CurrentVersion: "1.0.0",
		LatestVersion:  "9.9.9",
		Kind:           kind,
		Breaking:       breaking,
	}
}

func selectedNames(decisions []types.Decision) []string {
	names := make([]string, 0, len(decisions))
	for _, d := range decisions {
		if d.Selected {
			names = append(names, d.Candidate.Name)
		}
	}
	return names
}

func TestDefaultPolicySkipsMajors(t *testing.T) {
	policy := NewUpdatePolicy(false, false)
	decisions := policy.DecideAll([]types.Candidate{
		candidate("a", types.UpdateKindMinor, false),
		candidate("b", types.UpdateKindMajor, true),
		candidate("c", types.UpdateKindPatch, false),
	})
	require.Len(t, decisions, 3)
	assert.Equal(t, []string{"a", "c"}, selectedNames(decisions))
	assert.Equal(t, types.DecisionReasonSkippedBreaking, decisions[1].Reason)
}

func TestAllowBreakingSelectsMajors(t *testing.T) {
	policy := NewUpdatePolicy(true, false)
	decisions := policy.DecideAll([]types.Candidate{
		candidate("a", types.UpdateKindMinor, false),
		candidate("b", types.UpdateKindMajor, true),
		candidate("c", types.UpdateKindPatch, false),
	})
	assert.Equal(t, []string{"a", "b", "c"}, selectedNames(decisions))
	assert.Equal(t, types.DecisionReasonBreakingAllowed, decisions[1].Reason)
}

func TestUnknownKindIsOptIn(t *testing.T) {
	strict := NewUpdatePolicy(false, false)
	decision := strict.Decide(candidate("weird", types.UpdateKindUnknown, false))
	assert.False(t, decision.Selected)
	assert.Equal(t, types.DecisionReasonSkippedUnknown, decision.Reason)

	lenient := NewUpdatePolicy(false, true)
	decision = lenient.Decide(candidate("weird", types.UpdateKindUnknown, false))
	assert.True(t, decision.Selected)
	assert.Equal(t, types.DecisionReasonPolicyAccepted, decision.Reason)
}

func TestDecideAllPreservesOrderAndCount(t *testing.T) {
	policy := NewUpdatePolicy(false, false)
	candidates := []types.Candidate{
		candidate("z", types.UpdateKindPatch, false),
		candidate("m", types.UpdateKindMajor, true),
		candidate("a", types.UpdateKindMinor, false),
	}
	decisions := policy.DecideAll(candidates)
	require.Len(t, decisions, len(candidates))
	for i, d := range decisions {
		assert.Equal(t, candidates[i].Name, d.Candidate.Name)
	}
}

func TestFlagsReflectPolicy(t *testing.T) {
	policy := NewUpdatePolicy(true, true)
	assert.Equal(t, types.PolicyFlags{AllowBreaking: true, AllowUnknown: true}, policy.Flags())
}
