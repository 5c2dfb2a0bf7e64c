package app

import (
	"time"

	"depsync/internal/types"
)

type UpdateRequest struct {
	ManifestPath   string
	AuxiliaryPaths []string
	AllowBreaking  bool
	AllowUnknown   bool
	Workers        int
	VerifyTimeout  time.Duration
}

type UpdateResult struct {
	FinalState types.FinalState
	SnapshotID string
	ReportPath string
	Applied    int
	Skipped    int
}

type CheckRequest struct {
	ManifestPath  string
	AllowBreaking bool
	AllowUnknown  bool
	Workers       int
}

type CheckResult struct {
	Decisions  []types.Decision
	ReportPath string
}

type RestoreRequest struct {
	SnapshotID string
}

type RestoreResult struct {
	SnapshotID string
	Files      int
}

type PruneRequest struct {
	Keep int
}

type PruneResult struct {
	Removed int
}
