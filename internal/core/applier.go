package core

import (
	"depsync/internal/types"
)

// Apply returns a new manifest with each selected decision's package
// bumped to its latest version. Non-selected packages keep their pinned
// version. Pure function: the input manifest is never mutated.
func Apply(manifest types.Manifest, decisions []types.Decision) types.Manifest {
	targets := map[string]string{}
	for _, decision := range decisions {
		if !decision.Selected {
			continue
		}
		targets[decision.Candidate.Name] = decision.Candidate.LatestVersion
	}
	next := manifest.Clone()
	for i, entry := range next.Entries {
		if version, ok := targets[entry.Name]; ok {
			next.Entries[i].Version = version
		}
	}
	return next
}
