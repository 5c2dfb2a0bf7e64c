package policies

import (
	"depsync/internal/types"
)

// UpdatePolicy decides which classified candidates are applied. The
// default policy selects every non-breaking candidate of known kind;
// majors and unknown-kind candidates are opt-in.
type UpdatePolicy struct {
	AllowBreaking bool
	AllowUnknown  bool
}

func NewUpdatePolicy(allowBreaking bool, allowUnknown bool) UpdatePolicy {
	return UpdatePolicy{AllowBreaking: allowBreaking, AllowUnknown: allowUnknown}
}

// Decide produces the single decision for a candidate.
func (p UpdatePolicy) Decide(candidate types.Candidate) types.Decision {
	switch {
	case candidate.Breaking && !p.AllowBreaking:
		return types.Decision{
			Candidate: candidate,
			Reason:    types.DecisionReasonSkippedBreaking,
		}
	case candidate.Breaking:
		// Selected but flagged for extra scrutiny in the report.
		return types.Decision{
			Candidate: candidate,
			Selected:  true,
			Reason:    types.DecisionReasonBreakingAllowed,
		}
	case candidate.Kind == types.UpdateKindUnknown && !p.AllowUnknown:
		return types.Decision{
			Candidate: candidate,
			Reason:    types.DecisionReasonSkippedUnknown,
		}
	default:
		return types.Decision{
			Candidate: candidate,
			Selected:  true,
			Reason:    types.DecisionReasonPolicyAccepted,
		}
	}
}

// DecideAll maps Decide over a candidate set, preserving order.
func (p UpdatePolicy) DecideAll(candidates []types.Candidate) []types.Decision {
	decisions := make([]types.Decision, 0, len(candidates))
	for _, candidate := range candidates {
		decisions = append(decisions, p.Decide(candidate))
	}
	return decisions
}

// Flags returns the policy flags for inclusion in the run report.
func (p UpdatePolicy) Flags() types.PolicyFlags {
	return types.PolicyFlags{AllowBreaking: p.AllowBreaking, AllowUnknown: p.AllowUnknown}
}
