package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/core"
	"depsync/internal/policies"
	"depsync/internal/types"
)

// Update runs the full check -> classify -> select -> backup -> apply ->
// verify -> commit-or-rollback pipeline for one manifest. Exactly one
// run report is emitted per invocation, including early aborts.
func (s Service) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return UpdateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}

	policy := policies.NewUpdatePolicy(req.AllowBreaking, req.AllowUnknown)
	report := types.RunReport{
		RunID:      s.runID(),
		Timestamp:  s.now().Format(time.RFC3339),
		Policy:     policy.Flags(),
		Decisions:  []types.Decision{},
		Results:    []types.Result{},
		FinalState: types.FinalStateNoopNoUpdates,
	}
	result := UpdateResult{}

	state := types.RunStateIdle
	advance := func(next types.RunState) error {
		moved, err := core.Advance(state, next)
		if err != nil {
			return err
		}
		state = moved
		return nil
	}
	// seal writes the report exactly once, best-effort: a report write
	// failure is logged but never changes the outcome it describes.
	sealed := false
	seal := func() {
		if sealed {
			return
		}
		sealed = true
		if next, err := core.Advance(state, types.RunStateReporting); err == nil {
			state = next
		} else {
			log.Ctx(ctx).Warn().AnErr("cause", err).Msg("run ended outside a reportable state")
		}
		if s.Reports != nil {
			path, err := s.Reports.Write(report)
			if err != nil {
				log.Ctx(ctx).Error().AnErr("cause", err).Msg("failed to persist run report")
			} else {
				result.ReportPath = path
			}
		}
		if next, err := core.Advance(state, types.RunStateDone); err == nil {
			state = next
		}
		result.FinalState = report.FinalState
	}

	manifest, err := s.Manifest.Load(manifestPath)
	if err != nil {
		report.FatalError = err.Error()
		seal()
		return result, err
	}
	if err := core.ValidateManifest(ctx, manifest); err != nil {
		report.FatalError = err.Error()
		seal()
		return result, err
	}
	if len(manifest.Entries) == 0 {
		log.Ctx(ctx).Info().Msg("manifest has no packages, nothing to do")
		seal()
		return result, nil
	}

	if err := advance(types.RunStateChecking); err != nil {
		return result, err
	}
	candidates := s.collectCandidates(ctx, manifest, req.Workers)

	if err := advance(types.RunStateClassifying); err != nil {
		return result, err
	}
	candidates = classifyCandidates(ctx, candidates)

	if err := advance(types.RunStateSelecting); err != nil {
		return result, err
	}
	report.Decisions = policy.DecideAll(candidates)
	var selected []types.Decision
	for _, decision := range report.Decisions {
		if decision.Selected {
			selected = append(selected, decision)
		} else {
			result.Skipped++
		}
	}
	if len(selected) == 0 {
		log.Ctx(ctx).Info().
			Int("candidates", len(candidates)).
			Msg("no candidates selected, leaving manifest untouched")
		seal()
		return result, nil
	}

	// The advisory lock covers everything from the first side effect
	// (the snapshot) through reporting.
	if s.Lock != nil {
		if err := s.Lock.Acquire(); err != nil {
			report.FatalError = err.Error()
			seal()
			return result, err
		}
		defer func() {
			if err := s.Lock.Release(); err != nil {
				log.Ctx(ctx).Warn().AnErr("cause", err).Msg("failed to release run lock")
			}
		}()
	}

	if err := advance(types.RunStateBackingUp); err != nil {
		return result, err
	}
	snapshot, err := s.Backups.Create(ctx, manifestPath, req.AuxiliaryPaths)
	if err != nil {
		// Nothing has been mutated yet, so aborting here is safe.
		report.FatalError = err.Error()
		for _, decision := range selected {
			report.Results = append(report.Results, types.Result{
				Package:    decision.Candidate.Name,
				Status:     types.ResultStatusSkipped,
				OldVersion: decision.Candidate.CurrentVersion,
				NewVersion: decision.Candidate.LatestVersion,
				Error:      "backup failed, run aborted before mutation",
			})
		}
		seal()
		return result, err
	}
	report.SnapshotID = snapshot.ID
	result.SnapshotID = snapshot.ID

	if err := advance(types.RunStateApplying); err != nil {
		return result, err
	}
	candidateManifest := core.Apply(manifest, report.Decisions)
	if err := s.Manifest.Save(candidateManifest, manifestPath); err != nil {
		// The atomic rename either fully replaced the manifest or left
		// it alone; restore to the snapshot to make the outcome certain.
		return s.rollBack(ctx, &report, &result, selected, snapshot, advance,
			fmt.Sprintf("failed to persist candidate manifest (%v), rolled back", err), seal)
	}

	if err := advance(types.RunStateVerifying); err != nil {
		return result, err
	}
	report.Verification.Attempted = true
	passed, verifyErr := s.Verifier.Verify(ctx, req.VerifyTimeout)
	if verifyErr != nil {
		log.Ctx(ctx).Warn().AnErr("cause", verifyErr).Msg("verifier error, treated as verification failure")
		passed = false
	}
	report.Verification.Passed = passed

	if passed {
		if err := advance(types.RunStateCommitted); err != nil {
			return result, err
		}
		report.FinalState = types.FinalStateCommitted
		for _, decision := range selected {
			report.Results = append(report.Results, types.Result{
				Package:    decision.Candidate.Name,
				Status:     types.ResultStatusApplied,
				OldVersion: decision.Candidate.CurrentVersion,
				NewVersion: decision.Candidate.LatestVersion,
			})
			result.Applied++
		}
		log.Ctx(ctx).Info().
			Int("applied", result.Applied).
			Str("snapshot", snapshot.ID).
			Msg("verification passed, updates committed")
		seal()
		return result, nil
	}
	return s.rollBack(ctx, &report, &result, selected, snapshot, advance,
		"verification failed, rolled back", seal)
}

// rollBack restores the snapshot after a failed apply or verification.
// A restore failure is the one unrecoverable error in the system: it is
// surfaced with its own final state and never masked as a clean
// rollback.
func (s Service) rollBack(
	ctx context.Context,
	report *types.RunReport,
	result *UpdateResult,
	selected []types.Decision,
	snapshot types.Snapshot,
	advance func(types.RunState) error,
	reason string,
	seal func(),
) (UpdateResult, error) {
	if err := advance(types.RunStateRollingBack); err != nil {
		return *result, err
	}
	restoreErr := s.Backups.Restore(ctx, snapshot)
	if restoreErr != nil {
		report.FinalState = types.FinalStateRestoreFailed
		report.FatalError = restoreErr.Error()
		for _, decision := range selected {
			report.Results = append(report.Results, types.Result{
				Package:    decision.Candidate.Name,
				Status:     types.ResultStatusFailed,
				OldVersion: decision.Candidate.CurrentVersion,
				NewVersion: decision.Candidate.LatestVersion,
				Error:      fmt.Sprintf("%s; restore failed: %v", reason, restoreErr),
			})
		}
		log.Ctx(ctx).Error().
			Str("snapshot", snapshot.ID).
			AnErr("cause", restoreErr).
			Msg("restore failed, manifest may be left in candidate state, manual intervention required")
		seal()
		return *result, restoreErr
	}
	report.FinalState = types.FinalStateRolledBack
	for _, decision := range selected {
		report.Results = append(report.Results, types.Result{
			Package:    decision.Candidate.Name,
			Status:     types.ResultStatusFailed,
			OldVersion: decision.Candidate.CurrentVersion,
			NewVersion: decision.Candidate.LatestVersion,
			Error:      reason,
		})
	}
	log.Ctx(ctx).Warn().Str("snapshot", snapshot.ID).Msg(reason)
	seal()
	return *result, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(reason)
}
