package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"depsync/internal/core"
	"depsync/internal/types"
)

const defaultResolveWorkers = 4

// collectCandidates resolves latest versions for every manifest entry
// over a bounded worker pool and keeps the entries whose upstream
// version is newer than the pinned one. Per-package resolution failures
// are logged and treated as "no update available"; they never abort the
// run. The result is ordered by package name so reports are
// deterministic.
func (s Service) collectCandidates(ctx context.Context, manifest types.Manifest, workerCount int) []types.Candidate {
	entries := manifest.Entries
	type resolution struct {
		latest string
		found  bool
	}
	resolutions := make([]resolution, len(entries))
	if workerCount <= 0 {
		workerCount = defaultResolveWorkers
	}
	if len(entries) < workerCount {
		workerCount = len(entries)
	}
	sem := make(chan struct{}, workerCount)
	var wg sync.WaitGroup
	for i, entry := range entries {
		i, entry := i, entry
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			latest, found, err := s.Versions.Resolve(ctx, entry.Name)
			if err != nil {
				log.Ctx(ctx).Warn().
					Str("package", entry.Name).
					AnErr("cause", err).
					Msg("version resolution failed, treating as no update")
				return
			}
			resolutions[i] = resolution{latest: latest, found: found}
		}()
	}
	wg.Wait()

	comparator := core.NewComparator()
	var candidates []types.Candidate
	for i, entry := range entries {
		resolved := resolutions[i]
		if !resolved.found {
			continue
		}
		if !comparator.IsNewer(entry.Scheme, resolved.latest, entry.Version) {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Name:           entry.Name,
			CurrentVersion: entry.Version,
			LatestVersion:  resolved.latest,
			Scheme:         entry.Scheme,
		})
	}
	// entries are sorted by name, so candidates already are too.
	return candidates
}

// classifyCandidates runs the update classifier over the full candidate
// set. Unknown-kind candidates are logged for operator review, as
// required for versions that do not parse as semantic versions.
func classifyCandidates(ctx context.Context, candidates []types.Candidate) []types.Candidate {
	classified := make([]types.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		classification := core.Classify(candidate.CurrentVersion, candidate.LatestVersion)
		candidate.Kind = classification.Kind
		candidate.Breaking = classification.Breaking
		if candidate.Kind == types.UpdateKindUnknown {
			log.Ctx(ctx).Warn().
				Str("package", candidate.Name).
				Str("current", candidate.CurrentVersion).
				Str("latest", candidate.LatestVersion).
				Msg("version pair did not classify, marked unknown for operator review")
		}
		classified = append(classified, candidate)
	}
	return classified
}
