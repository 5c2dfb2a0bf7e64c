package types

// Candidate is a package for which the version source reported a
// version different from the pinned one. Ephemeral, scoped to one run.
type Candidate struct {
	Name           string        `json:"name"`
	CurrentVersion string        `json:"currentVersion"`
	LatestVersion  string        `json:"latestVersion"`
	Kind           UpdateKind    `json:"updateKind"`
	Breaking       bool          `json:"isBreaking"`
	Scheme         VersionScheme `json:"scheme,omitempty"`
}

// Decision records whether a candidate was selected for application.
// Every candidate produced in a run has exactly one decision.
type Decision struct {
	Candidate Candidate      `json:"candidate"`
	Selected  bool           `json:"selected"`
	Reason    DecisionReason `json:"reason"`
}

// Result is the outcome for one attempted decision.
type Result struct {
	Package    string       `json:"package"`
	Status     ResultStatus `json:"status"`
	OldVersion string       `json:"oldVersion"`
	NewVersion string       `json:"newVersion"`
	Error      string       `json:"error,omitempty"`
}

type Verification struct {
	Attempted bool `json:"attempted"`
	Passed    bool `json:"passed"`
}

// PolicyFlags are the selection flags that were in effect for a run.
type PolicyFlags struct {
	AllowBreaking bool `json:"allowBreaking"`
	AllowUnknown  bool `json:"allowUnknown"`
}

// RunReport is the single source of truth for what happened during one
// orchestrator invocation. Created empty at run start, populated
// incrementally, sealed and persisted at run end.
type RunReport struct {
	RunID        string       `json:"runId"`
	Timestamp    string       `json:"timestamp"`
	SnapshotID   string       `json:"snapshotId,omitempty"`
	CheckOnly    bool         `json:"checkOnly,omitempty"`
	Policy       PolicyFlags  `json:"policy"`
	Decisions    []Decision   `json:"decisions"`
	Results      []Result     `json:"results"`
	Verification Verification `json:"verification"`
	FinalState   FinalState   `json:"finalState"`
	FatalError   string       `json:"fatalError,omitempty"`
}
