package types

// VersionScheme selects the comparison semantics for a package's
// version strings. Classification into update kinds always uses
// semantic versioning; the scheme only affects candidate detection.
type VersionScheme string

const (
	VersionSchemeSemver VersionScheme = "semver"
	VersionSchemeApt    VersionScheme = "apt"
	VersionSchemePip    VersionScheme = "pip"
)

type UpdateKind string

const (
	UpdateKindPatch   UpdateKind = "patch"
	UpdateKindMinor   UpdateKind = "minor"
	UpdateKindMajor   UpdateKind = "major"
	UpdateKindUnknown UpdateKind = "unknown"
)

type DecisionReason string

const (
	DecisionReasonPolicyAccepted  DecisionReason = "policy-accepted"
	DecisionReasonBreakingAllowed DecisionReason = "breaking-allowed"
	DecisionReasonSkippedBreaking DecisionReason = "skipped-major-breaking"
	DecisionReasonSkippedUnknown  DecisionReason = "skipped-unknown"
)

type ResultStatus string

const (
	ResultStatusApplied ResultStatus = "applied"
	ResultStatusSkipped ResultStatus = "skipped"
	ResultStatusFailed  ResultStatus = "failed"
)

type FinalState string

const (
	FinalStateCommitted     FinalState = "committed"
	FinalStateRolledBack    FinalState = "rolledBack"
	FinalStateNoopNoUpdates FinalState = "noopNoUpdates"
	FinalStateRestoreFailed FinalState = "restoreFailed"
)

// RunState is the orchestrator's position in the update pipeline.
// Transitions are validated; see core.Advance.
type RunState string

const (
	RunStateIdle        RunState = "idle"
	RunStateChecking    RunState = "checking"
	RunStateClassifying RunState = "classifying"
	RunStateSelecting   RunState = "selecting"
	RunStateBackingUp   RunState = "backing-up"
	RunStateApplying    RunState = "applying"
	RunStateVerifying   RunState = "verifying"
	RunStateCommitted   RunState = "committed"
	RunStateRollingBack RunState = "rolling-back"
	RunStateReporting   RunState = "reporting"
	RunStateDone        RunState = "done"
)
