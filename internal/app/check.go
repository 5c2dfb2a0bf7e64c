package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/core"
	"depsync/internal/policies"
	"depsync/internal/types"
)

// Check runs the checking, classifying, and selection stages only. It
// never locks, snapshots, or mutates anything; the decision table it
// would have acted on is returned and written to a check-only report.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	manifest, err := s.Manifest.Load(manifestPath)
	if err != nil {
		return CheckResult{}, err
	}
	if err := core.ValidateManifest(ctx, manifest); err != nil {
		return CheckResult{}, err
	}
	candidates := s.collectCandidates(ctx, manifest, req.Workers)
	candidates = classifyCandidates(ctx, candidates)
	policy := policies.NewUpdatePolicy(req.AllowBreaking, req.AllowUnknown)
	decisions := policy.DecideAll(candidates)

	result := CheckResult{Decisions: decisions}
	if s.Reports != nil {
		report := types.RunReport{
			RunID:      s.runID(),
			Timestamp:  s.now().Format(time.RFC3339),
			CheckOnly:  true,
			Policy:     policy.Flags(),
			Decisions:  decisions,
			Results:    []types.Result{},
			FinalState: types.FinalStateNoopNoUpdates,
		}
		path, err := s.Reports.Write(report)
		if err != nil {
			log.Ctx(ctx).Error().AnErr("cause", err).Msg("failed to persist check report")
		} else {
			result.ReportPath = path
		}
	}
	return result, nil
}
