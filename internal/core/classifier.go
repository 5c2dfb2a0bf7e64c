package core

import (
	semver "github.com/Masterminds/semver/v3"

	"depsync/internal/types"
)

// Classification labels a (current, latest) version pair with an update
// kind and a breaking-change flag.
type Classification struct {
	Kind     types.UpdateKind
	Breaking bool
}

// Classify computes the update kind for a version pair. Pairs where
// either side does not parse as a semantic version yield unknown and
// non-breaking; the default policy excludes those from auto-apply and
// the report flags them for operator review.
//
// Callers filter latest == current upstream; equal pairs are never
// candidates.
func Classify(current string, latest string) Classification {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return Classification{Kind: types.UpdateKindUnknown}
	}
	lat, err := semver.NewVersion(latest)
	if err != nil {
		return Classification{Kind: types.UpdateKindUnknown}
	}
	switch {
	case lat.Major() > cur.Major():
		return Classification{Kind: types.UpdateKindMajor, Breaking: true}
	case lat.Major() == cur.Major() && lat.Minor() > cur.Minor():
		return Classification{Kind: types.UpdateKindMinor}
	default:
		return Classification{Kind: types.UpdateKindPatch}
	}
}
