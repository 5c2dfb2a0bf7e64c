package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/types"
)

// ListSnapshots returns all snapshots in the store, newest first.
func (s Service) ListSnapshots(_ context.Context) ([]types.Snapshot, error) {
	return s.Backups.List()
}

// RestoreSnapshot rewrites the live manifest and auxiliary files from a
// named snapshot. It takes the same run lock as an update so it cannot
// race an in-flight run.
func (s Service) RestoreSnapshot(ctx context.Context, req RestoreRequest) (RestoreResult, error) {
	id := strings.TrimSpace(req.SnapshotID)
	if id == "" {
		return RestoreResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("snapshot id is required")
	}
	if s.Lock != nil {
		if err := s.Lock.Acquire(); err != nil {
			return RestoreResult{}, err
		}
		defer func() {
			if err := s.Lock.Release(); err != nil {
				log.Ctx(ctx).Warn().AnErr("cause", err).Msg("failed to release run lock")
			}
		}()
	}
	snapshot, err := s.Backups.Get(id)
	if err != nil {
		return RestoreResult{}, err
	}
	if err := s.Backups.Restore(ctx, snapshot); err != nil {
		return RestoreResult{}, err
	}
	return RestoreResult{SnapshotID: snapshot.ID, Files: len(snapshot.Files)}, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (s Service) PruneSnapshots(_ context.Context, req PruneRequest) (PruneResult, error) {
	removed, err := s.Backups.Prune(req.Keep)
	if err != nil {
		return PruneResult{}, err
	}
	return PruneResult{Removed: removed}, nil
}
